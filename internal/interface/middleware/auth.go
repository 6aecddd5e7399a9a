package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
	"github.com/oksasatya/cornucopia-api/pkg/response"
)

const CtxAccountKey = "account"

// Authenticator checks username/password credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)
}

// BasicAuth authenticates HTTP basic credentials and stores the user record
// under CtxAccountKey along with the identity keys.
func BasicAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="cornucopia"`)
			response.Error(c, apperror.Auth("missing basic credentials"))
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(CtxAccountKey, u)
		setIdentity(c, application.IdentityOf(u))
		c.Next()
	}
}

// Account returns the user authenticated by BasicAuth.
func Account(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxAccountKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
