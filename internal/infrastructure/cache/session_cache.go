package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/pkg/helpers"
)

const sessionPrefix = "user:session:"

type session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SessionCache keeps findHash -> identity in Redis. Redis errors degrade to
// cache misses; the store stays authoritative.
type SessionCache struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

func NewSessionCache(rdb *redis.Client, logger *logrus.Logger) *SessionCache {
	return &SessionCache{rdb: rdb, logger: logger}
}

func (s *SessionCache) Get(ctx context.Context, findHash string) (*application.Identity, bool) {
	var v session
	ok, err := helpers.RedisGetJSON(ctx, s.rdb, sessionPrefix+findHash, &v)
	if err != nil {
		s.warn(err, "session lookup failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &application.Identity{UserID: v.UserID, Username: v.Username, Email: v.Email}, true
}

func (s *SessionCache) Put(ctx context.Context, findHash string, id application.Identity, ttl time.Duration) {
	v := session{UserID: id.UserID, Username: id.Username, Email: id.Email}
	if err := helpers.RedisSetJSON(ctx, s.rdb, sessionPrefix+findHash, v, ttl); err != nil {
		s.warn(err, "session store failed")
	}
}

func (s *SessionCache) Drop(ctx context.Context, findHash string) {
	if err := helpers.RedisDel(ctx, s.rdb, sessionPrefix+findHash); err != nil {
		s.warn(err, "session drop failed")
	}
}

func (s *SessionCache) warn(err error, msg string) {
	if s.logger != nil {
		s.logger.WithError(err).Warn(msg)
	}
}

var _ application.SessionCache = (*SessionCache)(nil)
