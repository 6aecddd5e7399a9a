package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	repo "github.com/oksasatya/cornucopia-api/internal/domain/repository"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

var errNothingToUpdate = apperror.Validation("nothing to update")

type ProfileService struct {
	Profiles repo.ProfileRepository
	Recipes  repo.RecipeRepository
	Comments repo.CommentRepository
	Upvotes  repo.UpvoteRepository
	Cascade  *CascadeDeleter
	Logger   *logrus.Logger
}

type CreateProfileInput struct {
	Name          string
	ProfilePicURI *string
}

// ProfileWithRecipes is a Profile whose recipe ids are resolved to recipes.
type ProfileWithRecipes struct {
	entity.Profile
	Recipes []entity.Recipe `json:"recipes"`
}

type ProfileWithComments struct {
	entity.Profile
	Comments []entity.Comment `json:"comments"`
}

type ProfileWithUpvotes struct {
	entity.Profile
	Upvotes []entity.Upvote `json:"upvotes"`
}

// Create makes the profile of userID. A user owns at most one profile.
func (s *ProfileService) Create(ctx context.Context, userID string, in CreateProfileInput) (*entity.Profile, error) {
	p := &entity.Profile{
		ID:            newID(),
		UserID:        userID,
		Name:          in.Name,
		ProfilePicURI: in.ProfilePicURI,
		Created:       time.Now().UTC(),
	}
	p.Normalize()
	if err := s.Profiles.Create(ctx, p); err != nil {
		return nil, storeErr(err, "profile")
	}
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*entity.Profile, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := s.Profiles.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "profile")
	}
	return p, nil
}

func (s *ProfileService) List(ctx context.Context) ([]entity.Profile, error) {
	ps, err := s.Profiles.List(ctx)
	if err != nil {
		return nil, storeErr(err, "profile")
	}
	if ps == nil {
		ps = []entity.Profile{}
	}
	return ps, nil
}

// ForUser returns the profile the requester acts as.
func (s *ProfileService) ForUser(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "profile")
	}
	return p, nil
}

// owned loads profile id and checks that userID owns it.
func (s *ProfileService) owned(ctx context.Context, id, userID string) (*entity.Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, apperror.Auth("not the owner of this profile")
	}
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, id, userID string, patch entity.ProfilePatch) (*entity.Profile, error) {
	if patch.IsEmpty() {
		return nil, errNothingToUpdate
	}
	if _, err := s.owned(ctx, id, userID); err != nil {
		return nil, err
	}
	p, err := s.Profiles.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr(err, "profile")
	}
	return p, nil
}

// Delete removes the requester's profile together with everything it owns and
// its user account.
func (s *ProfileService) Delete(ctx context.Context, id string, who Identity) (*CascadeReport, error) {
	p, err := s.owned(ctx, id, who.UserID)
	if err != nil {
		return nil, err
	}
	report := s.Cascade.Run(ctx, p.ID, who.Username)
	if err := report.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *ProfileService) WithRecipes(ctx context.Context, id string) (*ProfileWithRecipes, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	recipes, err := s.Recipes.GetByIDs(ctx, p.Recipes)
	if err != nil {
		return nil, storeErr(err, "recipe")
	}
	if recipes == nil {
		recipes = []entity.Recipe{}
	}
	return &ProfileWithRecipes{Profile: *p, Recipes: recipes}, nil
}

func (s *ProfileService) WithComments(ctx context.Context, id string) (*ProfileWithComments, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.Comments.GetByIDs(ctx, p.Comments)
	if err != nil {
		return nil, storeErr(err, "comment")
	}
	if comments == nil {
		comments = []entity.Comment{}
	}
	return &ProfileWithComments{Profile: *p, Comments: comments}, nil
}

func (s *ProfileService) WithUpvotes(ctx context.Context, id string) (*ProfileWithUpvotes, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	upvotes, err := s.Upvotes.GetByIDs(ctx, p.Upvotes)
	if err != nil {
		return nil, storeErr(err, "upvote")
	}
	if upvotes == nil {
		upvotes = []entity.Upvote{}
	}
	return &ProfileWithUpvotes{Profile: *p, Upvotes: upvotes}, nil
}
