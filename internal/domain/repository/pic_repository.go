package repository

import (
	"context"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
)

type PicRepository interface {
	Create(ctx context.Context, p *entity.Pic) error
	GetByID(ctx context.Context, id string) (*entity.Pic, error)
	// ListByOwner returns the owner's pics oldest first.
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Pic, error)
	Delete(ctx context.Context, id string) error
	DeleteByOwners(ctx context.Context, ownerIDs []string) ([]entity.Pic, error)
}
