package common

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes adds the status endpoint under rg and the probes at the root.
func RegisterRoutes(router *gin.Engine, rg *gin.RouterGroup, h *Health) {
	rg.GET("/status", h.Status)

	router.GET("/healthz", h.Healthz)
	router.GET("/readyz", h.Readyz)
}
