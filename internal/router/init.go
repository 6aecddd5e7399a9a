package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/application"
	handlers "github.com/oksasatya/cornucopia-api/internal/interface/http"
	"github.com/oksasatya/cornucopia-api/internal/router/modules"
)

// Deps is everything the HTTP modules need.
type Deps struct {
	Services *application.Services
	Logger   *logrus.Logger
	// Redis backs the rate limiters; nil disables them.
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
	Health   map[string]handlers.Pinger

	DebugEnabled   bool
	MaxUploadBytes int64
}

// InitModules builds handlers from d and adds every module to r. Call it once
// during startup, before RegisterAll.
func InitModules(r *Registry, d Deps) {
	svc := d.Services
	limits := modules.Limits{RDB: d.Redis}

	r.Add(modules.NewAccountModule(handlers.NewAccountHandler(svc.Accounts, d.Logger), svc.Accounts, limits))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(svc.Profiles, d.Logger), svc.Accounts, limits))
	r.Add(modules.NewRecipeModule(handlers.NewRecipeHandler(svc.Recipes, d.Logger), svc.Accounts, limits))
	r.Add(modules.NewFeedbackModule(
		handlers.NewCommentHandler(svc.Comments, d.Logger),
		handlers.NewUpvoteHandler(svc.Upvotes, d.Logger),
		svc.Accounts,
		limits,
	))
	r.Add(modules.NewPicModule(handlers.NewPicHandler(svc.Pics, d.Logger, d.MaxUploadBytes), svc.Accounts, limits))
	r.Add(modules.NewDebugModule(handlers.NewHealthHandler(d.Health), r.Engine, d.Gatherer, d.DebugEnabled, limits))
}
