package repository

import (
	"context"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByFindHash(ctx context.Context, findHash string) (*entity.User, error)
	// Update applies patch; passwordHash and findHash replace the stored
	// values when non-nil. patch.Password is ignored.
	Update(ctx context.Context, id string, patch entity.UserPatch, passwordHash, findHash *string) (*entity.User, error)
	DeleteByUsername(ctx context.Context, username string) error
}
