package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/cornucopia-api/internal/interface/http"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
)

type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Tokens  middleware.TokenResolver
	Limits  Limits
}

func NewProfileModule(h *handlers.ProfileHandler, tokens middleware.TokenResolver, limits Limits) *ProfileModule {
	return &ProfileModule{Handler: h, Tokens: tokens, Limits: limits}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	rg.GET("/profile/:id", m.Handler.Get)
	rg.GET("/allprofiles", m.Handler.List)
	rg.GET("/allrecipes/:profileID", m.Handler.Recipes)
	rg.GET("/allcomments/:profileID", m.Handler.Comments)
	rg.GET("/allupvotes/:profileID", m.Handler.Upvotes)

	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.Tokens), m.Limits.PerUser(120))
	{
		auth.POST("/profile", m.Handler.Create)
		auth.PUT("/profile/:id", m.Handler.Update)
		auth.DELETE("/profile/:id", m.Handler.Delete)
	}
}
