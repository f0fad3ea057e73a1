package announcements

import (
	"MessAPI/internal/auth"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	rg.GET("/announcements", authMiddleware.RequireSession(), h.GetActive)

	admin := rg.Group("/admin/announcements")
	admin.Use(authMiddleware.RequireSession(), authMiddleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
