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

type RecipeService struct {
	Recipes   repo.RecipeRepository
	Comments  repo.CommentRepository
	Upvotes   repo.UpvoteRepository
	Profiles  *ProfileService
	Relations *Relations
	Cascade   *CascadeDeleter
	Index     RecipeIndex
	Logger    *logrus.Logger
}

type CreateRecipeInput struct {
	Description  string
	Ingredients  []string
	Instructions string
	CookTime     string
	PrepTime     string
	RecipeName   string
	RecipePicURI *string
	Categories   []string
}

func (in CreateRecipeInput) validate() error {
	var missing []string
	if len(in.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if strings.TrimSpace(in.Instructions) == "" {
		missing = append(missing, "instructions")
	}
	if len(in.Categories) == 0 {
		missing = append(missing, "categories")
	}
	if len(missing) > 0 {
		return apperror.Validation("recipe validation failed: " + strings.Join(missing, ", ") + " required")
	}
	return nil
}

// RecipeCreated is the create response: the new recipe and its updated owner.
type RecipeCreated struct {
	Profile *entity.Profile `json:"profile"`
	Recipe  *entity.Recipe  `json:"recipe"`
}

type RecipeWithComments struct {
	entity.Recipe
	Comments []entity.Comment `json:"comments"`
}

type RecipeWithUpvotes struct {
	entity.Recipe
	Upvotes []entity.Upvote `json:"upvotes"`
}

// Create stores a recipe for the requester's profile and links it into
// profile.recipes. If the link fails the recipe is removed again.
func (s *RecipeService) Create(ctx context.Context, userID string, in CreateRecipeInput) (*RecipeCreated, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	owner, err := s.Profiles.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	r := &entity.Recipe{
		ID:           newID(),
		ProfileID:    owner.ID,
		Description:  in.Description,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		CookTime:     in.CookTime,
		PrepTime:     in.PrepTime,
		RecipeName:   in.RecipeName,
		RecipePicURI: in.RecipePicURI,
		Categories:   in.Categories,
		Created:      time.Now().UTC(),
	}
	r.Normalize()
	if err := s.Recipes.Create(ctx, r); err != nil {
		return nil, storeErr(err, "recipe")
	}
	if err := s.Relations.Link(ctx, s.Relations.ProfileRecipes(), owner.ID, r.ID); err != nil {
		s.rollback(ctx, r.ID)
		return nil, err
	}
	profile, err := s.Profiles.Get(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	s.index(ctx, r)
	return &RecipeCreated{Profile: profile, Recipe: r}, nil
}

func (s *RecipeService) Get(ctx context.Context, id string) (*entity.Recipe, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r, err := s.Recipes.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "recipe")
	}
	return r, nil
}

// owned loads recipe id and checks it belongs to the requester's profile.
func (s *RecipeService) owned(ctx context.Context, id, userID string) (*entity.Recipe, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.Profiles.ForUser(ctx, userID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Auth("not the owner of this recipe")
		}
		return nil, err
	}
	if r.ProfileID != owner.ID {
		return nil, apperror.Auth("not the owner of this recipe")
	}
	return r, nil
}

func (s *RecipeService) Update(ctx context.Context, id, userID string, patch entity.RecipePatch) (*entity.Recipe, error) {
	if patch.IsEmpty() {
		return nil, errNothingToUpdate
	}
	if _, err := s.owned(ctx, id, userID); err != nil {
		return nil, err
	}
	r, err := s.Recipes.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr(err, "recipe")
	}
	s.index(ctx, r)
	return r, nil
}

// Delete removes the recipe, unlinks it from its profile and sweeps the
// comments, upvotes and pics attached to it. Only the recipe removal itself
// can fail the call.
func (s *RecipeService) Delete(ctx context.Context, id, userID string) error {
	r, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.Recipes.Delete(ctx, id); err != nil {
		return storeErr(err, "recipe")
	}
	if err := s.Relations.UnlinkAll(ctx, id, Ref{Edge: s.Relations.ProfileRecipes(), ParentID: r.ProfileID}); err != nil {
		s.log().WithError(err).WithField("recipe_id", id).Warn("recipe delete: profile unlink failed")
	}
	if err := s.Cascade.PurgeRecipe(ctx, id); err != nil {
		s.log().WithError(err).WithField("recipe_id", id).Warn("recipe delete: dependents not fully removed")
	}
	return nil
}

func (s *RecipeService) WithComments(ctx context.Context, id string) (*RecipeWithComments, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.Comments.GetByIDs(ctx, r.Comments)
	if err != nil {
		return nil, storeErr(err, "comment")
	}
	if comments == nil {
		comments = []entity.Comment{}
	}
	return &RecipeWithComments{Recipe: *r, Comments: comments}, nil
}

func (s *RecipeService) WithUpvotes(ctx context.Context, id string) (*RecipeWithUpvotes, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	upvotes, err := s.Upvotes.GetByIDs(ctx, r.Upvotes)
	if err != nil {
		return nil, storeErr(err, "upvote")
	}
	if upvotes == nil {
		upvotes = []entity.Upvote{}
	}
	return &RecipeWithUpvotes{Recipe: *r, Upvotes: upvotes}, nil
}

// Search runs q against the recipe index and resolves the hits.
func (s *RecipeService) Search(ctx context.Context, q string, size int) ([]entity.Recipe, error) {
	if strings.TrimSpace(q) == "" {
		return nil, apperror.Validation("query required")
	}
	if s.Index == nil {
		return []entity.Recipe{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	ids, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Internal("recipe search failed", err)
	}
	recipes, err := s.Recipes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "recipe")
	}
	if recipes == nil {
		recipes = []entity.Recipe{}
	}
	return recipes, nil
}

func (s *RecipeService) rollback(ctx context.Context, id string) {
	if err := s.Recipes.Delete(ctx, id); err != nil {
		s.log().WithError(err).WithField("recipe_id", id).Warn("recipe rollback failed")
	}
}

func (s *RecipeService) index(ctx context.Context, r *entity.Recipe) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, r); err != nil {
		s.log().WithError(err).WithField("recipe_id", r.ID).Warn("search index failed")
	}
}

func (s *RecipeService) log() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
