package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/cornucopia-api/internal/interface/http"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
)

// FeedbackModule serves comments and upvotes. POST takes the recipe id in
// :id; the other verbs take the comment or upvote id.
type FeedbackModule struct {
	Comments *handlers.CommentHandler
	Upvotes  *handlers.UpvoteHandler
	Tokens   middleware.TokenResolver
	Limits   Limits
}

func NewFeedbackModule(comments *handlers.CommentHandler, upvotes *handlers.UpvoteHandler, tokens middleware.TokenResolver, limits Limits) *FeedbackModule {
	return &FeedbackModule{Comments: comments, Upvotes: upvotes, Tokens: tokens, Limits: limits}
}

func (m *FeedbackModule) Register(rg *gin.RouterGroup) {
	rg.GET("/comment/:id", m.Comments.Get)
	rg.GET("/upvote/:id", m.Upvotes.Get)

	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.Tokens), m.Limits.PerUser(120))
	{
		auth.POST("/comment/:id", m.Comments.Create)
		auth.PUT("/comment/:id", m.Comments.Update)
		auth.DELETE("/comment/:id", m.Comments.Delete)

		auth.POST("/upvote/:id", m.Upvotes.Create)
		auth.PUT("/upvote/:id", m.Upvotes.Update)
		auth.DELETE("/upvote/:id", m.Upvotes.Delete)
	}
}
