package feedback

import (
	"MessAPI/internal/auth"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	resident := rg.Group("/feedback")
	resident.Use(authMiddleware.RequireSession())
	{
		resident.GET("", h.ListMine)
		resident.POST("", h.Submit)
	}

	admin := rg.Group("/admin/feedback")
	admin.Use(authMiddleware.RequireSession(), authMiddleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("", h.List)
		admin.POST("/:id/responses", h.Respond)
	}
}
