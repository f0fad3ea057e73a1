package auth

import (
	"net/http"

	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-only user management
type AdminHandler struct {
	repo         *Repository
	sessionStore *SessionStore
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(repo *Repository, sessionStore *SessionStore) *AdminHandler {
	return &AdminHandler{
		repo:         repo,
		sessionStore: sessionStore,
	}
}

// ListUsers returns users matching the search and filters
// GET /admin/users?q=&role=&status=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.repo.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to list users"}))
		return
	}

	q, role, status := c.Query("q"), c.Query("role"), c.Query("status")
	users = common.FilterSlice(users, func(u User) bool {
		return common.MatchesQuery(q, u.DisplayName, u.Email) &&
			common.MatchesFilter(role, string(u.Role)) &&
			common.MatchesFilter(status, string(u.Status))
	})

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"users": users,
		"total": len(users),
	}))
}

// GetUser returns a user by ID
// GET /admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.repo.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to get user"}))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{"user not found"}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"user": user,
	}))
}

// UpdateUser changes role or status. Suspending a user ends their sessions.
// PATCH /admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	if req.Role != nil && !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid role"}))
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid status"}))
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to get user"}))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{"user not found"}))
		return
	}

	if err := h.repo.UpdateUser(ctx, id, req.Role, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to update user"}))
		return
	}
	if req.Status != nil && *req.Status == StatusSuspended {
		if err := h.sessionStore.DeleteUserSessions(ctx, id); err != nil {
			c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to end sessions"}))
			return
		}
	}

	user, _ = h.repo.GetUserByID(ctx, id)
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"user": user,
	}))
}
