package menu

import (
	"MessAPI/internal/auth"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	menu := rg.Group("/menu")
	menu.Use(authMiddleware.RequireSession())
	{
		menu.GET("/week", h.GetWeek)
		menu.GET("/today", h.GetToday)
		menu.GET("/daily", h.GetDaily)
		menu.GET("/items", h.ListItems)
	}

	admin := rg.Group("/admin/menu")
	admin.Use(authMiddleware.RequireSession(), authMiddleware.RequireRole(auth.RoleAdmin))
	{
		admin.PUT("/daily", h.PutDaily)
		admin.DELETE("/daily/:date", h.DeleteDaily)

		admin.GET("/scheduled", h.ListScheduled)
		admin.POST("/scheduled", h.PostScheduled)
		admin.PATCH("/scheduled/:id", h.PatchScheduled)
		admin.POST("/scheduled/:id/publish", h.PublishScheduled)
		admin.DELETE("/scheduled/:id", h.DeleteScheduled)

		admin.POST("/items", h.PostItem)
		admin.PATCH("/items/:id", h.PatchItem)
		admin.DELETE("/items/:id", h.DeleteItem)
	}
}
