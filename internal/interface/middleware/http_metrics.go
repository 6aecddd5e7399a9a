package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/cornucopia-api/pkg/metrics"
)

// Metrics counts requests by method, route template and status.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status())
	}
}
