package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
)

// BlobStore holds uploaded image bytes.
type BlobStore interface {
	// Put stores r under key and returns the public URI of the object.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// RecipeIndex is the full-text index over recipes.
type RecipeIndex interface {
	Index(ctx context.Context, r *entity.Recipe) error
	Remove(ctx context.Context, id string) error
	// Search returns matching recipe ids, best match first.
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// Publisher enqueues a JSON message (email jobs).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// TokenIssuer signs and verifies bearer tokens wrapping a user's findHash.
type TokenIssuer interface {
	GenerateToken(findHash string) (string, time.Time, error)
	ParseToken(token string) (string, error)
}

// Identity is the authenticated requester.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// SessionCache caches findHash => Identity lookups.
type SessionCache interface {
	Get(ctx context.Context, findHash string) (*Identity, bool)
	Put(ctx context.Context, findHash string, id Identity, ttl time.Duration)
	Drop(ctx context.Context, findHash string)
}
