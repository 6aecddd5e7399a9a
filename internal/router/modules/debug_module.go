package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	handlers "github.com/oksasatya/cornucopia-api/internal/interface/http"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
)

// DebugModule serves /api/healthz and, when enabled, /api/debug/vars and
// /metrics on the root router.
type DebugModule struct {
	Health   *handlers.HealthHandler
	Root     gin.IRoutes
	Gatherer prometheus.Gatherer
	Enabled  bool
	Limits   Limits
}

func NewDebugModule(health *handlers.HealthHandler, root gin.IRoutes, gatherer prometheus.Gatherer, enabled bool, limits Limits) *DebugModule {
	return &DebugModule{Health: health, Root: root, Gatherer: gatherer, Enabled: enabled, Limits: limits}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Health.Health)
	if !m.Enabled {
		return
	}
	rl := m.Limits.PerIP(120)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	if m.Root != nil && m.Gatherer != nil {
		m.Root.GET("/metrics", middleware.RequirePrivateIP(), gin.WrapH(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})))
	}
}
