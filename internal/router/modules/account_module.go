package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/cornucopia-api/internal/interface/http"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
)

// AccountModule serves signup, signin and the basic-auth account routes.
type AccountModule struct {
	Handler *handlers.AccountHandler
	Auth    middleware.Authenticator
	Limits  Limits
}

func NewAccountModule(h *handlers.AccountHandler, auth middleware.Authenticator, limits Limits) *AccountModule {
	return &AccountModule{Handler: h, Auth: auth, Limits: limits}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rg.POST("/signup", m.Limits.PerIP(10), m.Handler.Signup)

	basic := rg.Group("/")
	basic.Use(m.Limits.PerIP(30), middleware.BasicAuth(m.Auth))
	{
		basic.GET("/signin", m.Handler.Signin)
		basic.PUT("/account", m.Handler.Update)
		basic.DELETE("/account", m.Handler.Delete)
	}
}
