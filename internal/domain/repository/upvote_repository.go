package repository

import (
	"context"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
)

type UpvoteRepository interface {
	Create(ctx context.Context, u *entity.Upvote) error
	GetByID(ctx context.Context, id string) (*entity.Upvote, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Upvote, error)
	Update(ctx context.Context, id string, patch entity.UpvotePatch) (*entity.Upvote, error)
	Delete(ctx context.Context, id string) error
	DeleteByVoter(ctx context.Context, profileID string) ([]entity.Upvote, error)
	DeleteByRecipe(ctx context.Context, recipeID string) ([]entity.Upvote, error)
}
