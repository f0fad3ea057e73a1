package announcements

import (
	"net/http"

	"MessAPI/internal/auth"
	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func fail(c *gin.Context, err error, msg string) {
	status := common.ErrorStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, common.CreateErrorResponse([]string{msg}))
		return
	}
	c.JSON(status, common.CreateErrorResponse([]string{err.Error()}))
}

// GetActive lists the announcements residents can see
// GET /announcements
func (h *Handler) GetActive(c *gin.Context) {
	items, err := h.service.Active(c.Request.Context())
	if err != nil {
		fail(c, err, "failed to load announcements")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"announcements": items,
		"total":         len(items),
	}))
}

// List searches all announcements
// GET /admin/announcements?q=&status=&priority=
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.Search(c.Request.Context(), Filter{
		Query:    c.Query("q"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	})
	if err != nil {
		fail(c, err, "failed to list announcements")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"announcements": items,
		"total":         len(items),
	}))
}

// Get returns one announcement
// GET /admin/announcements/:id
func (h *Handler) Get(c *gin.Context) {
	a, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "failed to load announcement")
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{"announcement not found"}))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(a))
}

// Create posts an announcement
// POST /admin/announcements
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	author := ""
	if user := auth.GetUserFromContext(c); user != nil {
		author = user.ID
	}
	a, err := h.service.Create(c.Request.Context(), req, author)
	if err != nil {
		fail(c, err, "failed to create announcement")
		return
	}
	c.JSON(http.StatusCreated, common.CreateSuccessNoticeResponse(a, "Announcement created", "Your announcement has been published successfully."))
}

// Update edits an announcement
// PATCH /admin/announcements/:id
func (h *Handler) Update(c *gin.Context) {
	var u Update
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	a, err := h.service.Update(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		fail(c, err, "failed to update announcement")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(a))
}

// Delete removes an announcement
// DELETE /admin/announcements/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err, "failed to delete announcement")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessNoticeResponse(nil, "Announcement deleted", "The announcement has been removed."))
}


/*
This project is the backend API for the hostel mess. Meal slot bookings, weekly menus, announcements, complaints and feedback for residents and the mess office.
MessAPI Copyright (C) 2025 MessAPI contributors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
