package repository

import (
	"context"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
)

type RecipeRepository interface {
	RefStore
	PicURIStore
	Create(ctx context.Context, r *entity.Recipe) error
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	// GetByIDs returns the recipes that exist, in the order of ids.
	GetByIDs(ctx context.Context, ids []string) ([]entity.Recipe, error)
	Update(ctx context.Context, id string, patch entity.RecipePatch) (*entity.Recipe, error)
	Delete(ctx context.Context, id string) error
	// DeleteByProfile removes every recipe owned by profileID and returns them.
	DeleteByProfile(ctx context.Context, profileID string) ([]entity.Recipe, error)
}
