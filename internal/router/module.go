package router

import "github.com/gin-gonic/gin"

// Module mounts one resource's routes on the /api group. Modules choose their
// own auth and rate-limit middleware per route group.
type Module interface {
	Register(api *gin.RouterGroup)
}
