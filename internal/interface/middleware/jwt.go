package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserNameKey  = "userName"
	CtxUserEmailKey = "userEmail"
)

// TokenResolver maps a bearer token to the identity it was issued for.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*application.Identity, error)
}

// BearerAuth reads "Authorization: Bearer <token>", resolves it and injects
// the identity into the context.
func BearerAuth(tokens TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := tokens.ResolveToken(c.Request.Context(), bearerToken(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		setIdentity(c, *id)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func setIdentity(c *gin.Context, id application.Identity) {
	c.Set(CtxUserIDKey, id.UserID)
	c.Set(CtxUserNameKey, id.Username)
	c.Set(CtxUserEmailKey, id.Email)
}

// Identity returns the identity set by BearerAuth or BasicAuth.
func Identity(c *gin.Context) application.Identity {
	return application.Identity{
		UserID:   c.GetString(CtxUserIDKey),
		Username: c.GetString(CtxUserNameKey),
		Email:    c.GetString(CtxUserEmailKey),
	}
}
