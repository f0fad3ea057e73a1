package realtime

import (
	"io"
	"net/http"
	"time"

	"MessAPI/internal/auth"
	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
)

// streamTables lists what can be streamed. Tables marked true only stream
// rows belonging to the caller unless the caller is an admin.
var streamTables = map[string]bool{
	"announcements":   false,
	"daily_menus":     false,
	"scheduled_menus": false,
	"menu_items":      false,
	"meal_bookings":   true,
	"complaints":      true,
	"feedbacks":       true,
	"admin_responses": true,
}

type Handler struct {
	hub       *Hub
	heartbeat time.Duration
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub, heartbeat: 25 * time.Second}
}

// Stream opens a Server-Sent Events feed of changes.
// GET /realtime/stream?table=announcements&filter=is_active=eq.true
func (h *Handler) Stream(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}

	table := c.Query("table")
	scoped, known := streamTables[table]
	if !known {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"unsupported table"}))
		return
	}

	filter, err := ParseFilter(table, c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	if scoped && user.Role != auth.RoleAdmin {
		filter.Column = "user_id"
		filter.Value = user.ID
	}

	sub := h.hub.Subscribe(filter, DefaultQueueSize)
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case e, ok := <-sub.C():
			if !ok {
				return false
			}
			c.SSEvent("change", e)
			return true
		case t := <-ticker.C:
			c.SSEvent("heartbeat", t.Unix())
			return true
		}
	})
}

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	rt := rg.Group("/realtime")
	rt.Use(authMiddleware.RequireSession())
	{
		rt.GET("/stream", h.Stream)
	}
}
