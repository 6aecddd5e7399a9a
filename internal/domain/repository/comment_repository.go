package repository

import (
	"context"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Comment, error)
	Update(ctx context.Context, id string, patch entity.CommentPatch) (*entity.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByCommenter(ctx context.Context, profileID string) ([]entity.Comment, error)
	DeleteByRecipe(ctx context.Context, recipeID string) ([]entity.Comment, error)
}
