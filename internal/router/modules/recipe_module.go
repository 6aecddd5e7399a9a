package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/cornucopia-api/internal/interface/http"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
)

type RecipeModule struct {
	Handler *handlers.RecipeHandler
	Tokens  middleware.TokenResolver
	Limits  Limits
}

func NewRecipeModule(h *handlers.RecipeHandler, tokens middleware.TokenResolver, limits Limits) *RecipeModule {
	return &RecipeModule{Handler: h, Tokens: tokens, Limits: limits}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	rg.GET("/recipe/:id", m.Handler.Get)
	rg.GET("/allrecipecomments/:recipeID", m.Handler.Comments)
	rg.GET("/allrecipeupvotes/:recipeID", m.Handler.Upvotes)
	rg.GET("/recipes/search", m.Limits.PerIP(60), m.Handler.Search)

	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.Tokens), m.Limits.PerUser(120))
	{
		auth.POST("/recipe", m.Handler.Create)
		auth.PUT("/recipe/:id", m.Handler.Update)
		auth.DELETE("/recipe/:id", m.Handler.Delete)
	}
}
