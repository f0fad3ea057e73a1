package profile

import (
	"MessAPI/internal/auth"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	profile := rg.Group("/profile")
	profile.Use(authMiddleware.RequireSession())
	{
		profile.GET("", h.GetProfile)
		profile.PATCH("", h.UpdateProfile)
		profile.GET("/theme", h.GetTheme)
		profile.PUT("/theme", h.PutTheme)
	}
}
