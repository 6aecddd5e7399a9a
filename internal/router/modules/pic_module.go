package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	handlers "github.com/oksasatya/cornucopia-api/internal/interface/http"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
)

type PicModule struct {
	Handler *handlers.PicHandler
	Tokens  middleware.TokenResolver
	Limits  Limits
}

func NewPicModule(h *handlers.PicHandler, tokens middleware.TokenResolver, limits Limits) *PicModule {
	return &PicModule{Handler: h, Tokens: tokens, Limits: limits}
}

func (m *PicModule) Register(rg *gin.RouterGroup) {
	rg.GET("/pic/:picID", m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.Tokens), m.Limits.PerUser(30))
	{
		auth.POST("/profile/:id/pic", m.Handler.Attach(entity.OwnerProfile))
		auth.DELETE("/profile/:id/pic", m.Handler.Detach(entity.OwnerProfile))
		auth.POST("/recipe/:id/pic", m.Handler.Attach(entity.OwnerRecipe))
		auth.DELETE("/recipe/:id/pic", m.Handler.Detach(entity.OwnerRecipe))
	}
}
