package repository

import (
	"context"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
)

type ProfileRepository interface {
	RefStore
	PicURIStore
	Create(ctx context.Context, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	List(ctx context.Context) ([]entity.Profile, error)
	Update(ctx context.Context, id string, patch entity.ProfilePatch) (*entity.Profile, error)
	Delete(ctx context.Context, id string) error
}
