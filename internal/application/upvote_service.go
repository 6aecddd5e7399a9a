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

// UpvoteService mirrors CommentService. Repeated upvotes by the same profile
// on the same recipe are accepted as separate records.
type UpvoteService struct {
	Upvotes   repo.UpvoteRepository
	Recipes   repo.RecipeRepository
	Profiles  *ProfileService
	Relations *Relations
	Logger    *logrus.Logger
}

type UpvoteCreated struct {
	Profile *entity.Profile `json:"profile"`
	Recipe  *entity.Recipe  `json:"recipe"`
	Upvote  *entity.Upvote  `json:"upvote"`
}

func (s *UpvoteService) Create(ctx context.Context, userID, recipeID, marker string) (*UpvoteCreated, error) {
	if strings.TrimSpace(marker) == "" {
		return nil, apperror.Validation("upvote validation failed: upvote required")
	}
	if err := checkID(recipeID); err != nil {
		return nil, err
	}
	voter, err := s.Profiles.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Recipes.GetByID(ctx, recipeID); err != nil {
		return nil, storeErr(err, "recipe")
	}
	u := &entity.Upvote{
		ID:             newID(),
		VoterProfileID: voter.ID,
		RecipeID:       recipeID,
		Upvote:         marker,
		Created:        time.Now().UTC(),
	}
	if err := s.Upvotes.Create(ctx, u); err != nil {
		return nil, storeErr(err, "upvote")
	}

	rel := s.Relations
	if err := rel.Link(ctx, rel.RecipeUpvotes(), recipeID, u.ID); err != nil {
		s.rollback(ctx, u)
		return nil, err
	}
	if err := rel.Link(ctx, rel.ProfileUpvotes(), voter.ID, u.ID); err != nil {
		_ = rel.UnlinkAll(ctx, u.ID, Ref{Edge: rel.RecipeUpvotes(), ParentID: recipeID})
		s.rollback(ctx, u)
		return nil, err
	}

	recipe, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, storeErr(err, "recipe")
	}
	profile, err := s.Profiles.Get(ctx, voter.ID)
	if err != nil {
		return nil, err
	}
	return &UpvoteCreated{Profile: profile, Recipe: recipe, Upvote: u}, nil
}

func (s *UpvoteService) Get(ctx context.Context, id string) (*entity.Upvote, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, err := s.Upvotes.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "upvote")
	}
	return u, nil
}

func (s *UpvoteService) owned(ctx context.Context, id, userID string) (*entity.Upvote, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	voter, err := s.Profiles.ForUser(ctx, userID)
	if err != nil || voter.ID != u.VoterProfileID {
		if err != nil && !apperror.Is(err, apperror.KindNotFound) {
			return nil, err
		}
		return nil, apperror.Auth("not the voter of this upvote")
	}
	return u, nil
}

func (s *UpvoteService) Update(ctx context.Context, id, userID string, patch entity.UpvotePatch) (*entity.Upvote, error) {
	if patch.IsEmpty() {
		return nil, errNothingToUpdate
	}
	if _, err := s.owned(ctx, id, userID); err != nil {
		return nil, err
	}
	u, err := s.Upvotes.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr(err, "upvote")
	}
	return u, nil
}

func (s *UpvoteService) Delete(ctx context.Context, id, userID string) error {
	u, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.Upvotes.Delete(ctx, id); err != nil {
		return storeErr(err, "upvote")
	}
	rel := s.Relations
	if err := rel.UnlinkAll(ctx, id,
		Ref{Edge: rel.RecipeUpvotes(), ParentID: u.RecipeID},
		Ref{Edge: rel.ProfileUpvotes(), ParentID: u.VoterProfileID},
	); err != nil {
		s.log().WithError(err).WithField("upvote_id", id).Warn("upvote delete: back-references not fully removed")
	}
	return nil
}

func (s *UpvoteService) rollback(ctx context.Context, u *entity.Upvote) {
	if err := s.Upvotes.Delete(ctx, u.ID); err != nil {
		s.log().WithError(err).WithField("upvote_id", u.ID).Warn("upvote rollback failed")
	}
}

func (s *UpvoteService) log() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
