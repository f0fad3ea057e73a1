package booking

import (
	"MessAPI/internal/auth"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	bookings := rg.Group("/bookings")
	bookings.Use(authMiddleware.RequireSession())
	{
		bookings.GET("/slots", h.GetSlots)
		bookings.GET("/day", h.GetDay)
		bookings.PUT("/selection", h.PutSelection)
		bookings.DELETE("/selection/:meal", h.DeleteSelection)
		bookings.PUT("/preference", h.PutPreference)
		bookings.POST("/submit", h.Submit)
		bookings.POST("", h.Book)
		bookings.GET("/history", h.GetHistory)
		bookings.GET("/stats", h.GetStats)
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(authMiddleware.RequireSession(), authMiddleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("", h.ListBookings)
		admin.GET("/headcount", h.GetHeadcount)
		admin.GET("/export", h.Export)
	}
}
