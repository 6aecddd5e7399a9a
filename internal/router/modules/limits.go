package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
)

// Limits builds rate limiters on a shared Redis client. A nil client turns
// every limiter into a pass-through.
type Limits struct {
	RDB *redis.Client
}

func (l Limits) PerIP(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.RDB, max, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
}

func (l Limits) PerUser(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.RDB, max, time.Minute, middleware.KeyByUserID(), nil)
}
