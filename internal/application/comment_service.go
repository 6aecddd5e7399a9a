package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	repo "github.com/oksasatya/cornucopia-api/internal/domain/repository"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

type CommentService struct {
	Comments  repo.CommentRepository
	Recipes   repo.RecipeRepository
	Profiles  *ProfileService
	Relations *Relations
	Logger    *logrus.Logger
}

// CommentCreated carries the comment and both parents after linking.
type CommentCreated struct {
	Profile *entity.Profile `json:"profile"`
	Recipe  *entity.Recipe  `json:"recipe"`
	Comment *entity.Comment `json:"comment"`
}

// Create posts text on recipeID as the requester and links the comment into
// recipe.comments and profile.comments.
func (s *CommentService) Create(ctx context.Context, userID, recipeID, text string) (*CommentCreated, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.Validation("comment validation failed: comment required")
	}
	if err := checkID(recipeID); err != nil {
		return nil, err
	}
	author, err := s.Profiles.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Recipes.GetByID(ctx, recipeID); err != nil {
		return nil, storeErr(err, "recipe")
	}
	c := &entity.Comment{
		ID:                 newID(),
		CommenterProfileID: author.ID,
		RecipeID:           recipeID,
		Comment:            text,
		Created:            time.Now().UTC(),
	}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, storeErr(err, "comment")
	}
	if err := s.link(ctx, c); err != nil {
		return nil, err
	}

	recipe, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, storeErr(err, "recipe")
	}
	profile, err := s.Profiles.Get(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	return &CommentCreated{Profile: profile, Recipe: recipe, Comment: c}, nil
}

// link attaches c to both parents. On failure the half-done links and the
// comment itself are undone so no parent points at a missing comment.
func (s *CommentService) link(ctx context.Context, c *entity.Comment) error {
	rel := s.Relations
	if err := rel.Link(ctx, rel.RecipeComments(), c.RecipeID, c.ID); err != nil {
		s.rollback(ctx, c)
		return err
	}
	if err := rel.Link(ctx, rel.ProfileComments(), c.CommenterProfileID, c.ID); err != nil {
		_ = rel.UnlinkAll(ctx, c.ID, Ref{Edge: rel.RecipeComments(), ParentID: c.RecipeID})
		s.rollback(ctx, c)
		return err
	}
	return nil
}

func (s *CommentService) Get(ctx context.Context, id string) (*entity.Comment, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	c, err := s.Comments.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "comment")
	}
	return c, nil
}

func (s *CommentService) owned(ctx context.Context, id, userID string) (*entity.Comment, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	author, err := s.Profiles.ForUser(ctx, userID)
	if err != nil || author.ID != c.CommenterProfileID {
		if err != nil && !apperror.Is(err, apperror.KindNotFound) {
			return nil, err
		}
		return nil, apperror.Auth("not the author of this comment")
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, id, userID string, patch entity.CommentPatch) (*entity.Comment, error) {
	if patch.IsEmpty() {
		return nil, errNothingToUpdate
	}
	if strings.TrimSpace(*patch.Comment) == "" {
		return nil, apperror.Validation("comment validation failed: comment required")
	}
	if _, err := s.owned(ctx, id, userID); err != nil {
		return nil, err
	}
	c, err := s.Comments.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr(err, "comment")
	}
	return c, nil
}

// Delete removes the comment and unlinks it from its recipe and its author.
// Unlink failures are logged; the comment stays deleted.
func (s *CommentService) Delete(ctx context.Context, id, userID string) error {
	c, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.Comments.Delete(ctx, id); err != nil {
		return storeErr(err, "comment")
	}
	rel := s.Relations
	if err := rel.UnlinkAll(ctx, id,
		Ref{Edge: rel.RecipeComments(), ParentID: c.RecipeID},
		Ref{Edge: rel.ProfileComments(), ParentID: c.CommenterProfileID},
	); err != nil {
		s.log().WithError(err).WithField("comment_id", id).Warn("comment delete: back-references not fully removed")
	}
	return nil
}

func (s *CommentService) rollback(ctx context.Context, c *entity.Comment) {
	if err := s.Comments.Delete(ctx, c.ID); err != nil {
		s.log().WithError(err).WithField("comment_id", c.ID).Warn("comment rollback failed")
	}
}

func (s *CommentService) log() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
