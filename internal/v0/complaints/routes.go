package complaints

import (
	"MessAPI/internal/auth"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	resident := rg.Group("/complaints")
	resident.Use(authMiddleware.RequireSession())
	{
		resident.GET("", h.ListMine)
		resident.POST("", h.Create)
	}

	admin := rg.Group("/admin/complaints")
	admin.Use(authMiddleware.RequireSession(), authMiddleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("", h.List)
		admin.PATCH("/:id", h.UpdateStatus)
	}
}
