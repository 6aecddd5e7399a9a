package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
	"github.com/oksasatya/cornucopia-api/pkg/metrics"
)

// Edge is one back-reference relationship: an array field on a parent
// document that lists child ids.
type Edge struct {
	Name   string
	Parent repository.RefStore
	Field  repository.RefField
}

// Ref addresses one parent of a child along an edge.
type Ref struct {
	Edge     Edge
	ParentID string
}

// Relations keeps the denormalized back-reference arrays of Profiles and
// Recipes in step with the existence of their children. Every write goes
// through the store's single-element append/remove so concurrent requests on
// the same parent cannot drop each other's updates.
type Relations struct {
	Profiles repository.ProfileRepository
	Recipes  repository.RecipeRepository
	Logger   *logrus.Logger
	Metrics  *metrics.Metrics
}

func NewRelations(profiles repository.ProfileRepository, recipes repository.RecipeRepository, logger *logrus.Logger, m *metrics.Metrics) *Relations {
	return &Relations{Profiles: profiles, Recipes: recipes, Logger: logger, Metrics: m}
}

func (m *Relations) ProfileRecipes() Edge {
	return Edge{Name: "profile.recipes", Parent: m.Profiles, Field: repository.RefRecipes}
}

func (m *Relations) ProfileComments() Edge {
	return Edge{Name: "profile.comments", Parent: m.Profiles, Field: repository.RefComments}
}

func (m *Relations) ProfileUpvotes() Edge {
	return Edge{Name: "profile.upvotes", Parent: m.Profiles, Field: repository.RefUpvotes}
}

func (m *Relations) RecipeComments() Edge {
	return Edge{Name: "recipe.comments", Parent: m.Recipes, Field: repository.RefComments}
}

func (m *Relations) RecipeUpvotes() Edge {
	return Edge{Name: "recipe.upvotes", Parent: m.Recipes, Field: repository.RefUpvotes}
}

// Link appends childID to the parent's array. Linking an id that is already
// present is a no-op.
func (m *Relations) Link(ctx context.Context, e Edge, parentID, childID string) error {
	err := e.Parent.AppendRef(ctx, parentID, e.Field, childID)
	m.Metrics.ObserveRelation(e.Name, "link", err)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(e.Name + ": parent " + parentID + " not found")
	}
	if err != nil {
		return apperror.Internal(e.Name+": link failed", err)
	}
	return nil
}

// Unlink removes childID from the parent's array. A missing parent or a
// missing child id is NotFound.
func (m *Relations) Unlink(ctx context.Context, e Edge, parentID, childID string) error {
	err := e.Parent.RemoveRef(ctx, parentID, e.Field, childID)
	m.Metrics.ObserveRelation(e.Name, "unlink", err)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(e.Name + ": " + childID + " not linked to " + parentID)
	}
	if err != nil {
		return apperror.Internal(e.Name+": unlink failed", err)
	}
	return nil
}

// UnlinkAll removes childID from every given parent. It keeps going after a
// failure and returns all failures joined; each one is also logged.
func (m *Relations) UnlinkAll(ctx context.Context, childID string, refs ...Ref) error {
	var errs []error
	for _, r := range refs {
		if err := m.Unlink(ctx, r.Edge, r.ParentID, childID); err != nil {
			m.warn(err, r.Edge.Name, r.ParentID, childID)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// picStore returns the document collection that owns pictures of kind k.
func (m *Relations) picStore(k entity.OwnerKind) repository.PicURIStore {
	if k == entity.OwnerRecipe {
		return m.Recipes
	}
	return m.Profiles
}

// SetPicURI points the owner's profilePicURI / recipePicURI at uri; nil clears it.
func (m *Relations) SetPicURI(ctx context.Context, kind entity.OwnerKind, ownerID string, uri *string) error {
	op := "set_pic"
	if uri == nil {
		op = "clear_pic"
	}
	err := m.picStore(kind).SetPicURI(ctx, ownerID, uri)
	m.Metrics.ObserveRelation(string(kind)+".pic", op, err)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(string(kind) + " not found")
	}
	if err != nil {
		return apperror.Internal(string(kind)+": pic uri update failed", err)
	}
	return nil
}

func (m *Relations) warn(err error, edge, parentID, childID string) {
	if m.Logger == nil {
		return
	}
	m.Logger.WithError(err).WithFields(logrus.Fields{
		"edge":      edge,
		"parent_id": parentID,
		"child_id":  childID,
	}).Warn("unlink failed")
}
