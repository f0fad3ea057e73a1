package complaints

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

// Create files a complaint for the signed-in resident
// POST /complaints
func (h *Handler) Create(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	complaint, err := h.service.File(c.Request.Context(), user.ID, req)
	if err != nil {
		fail(c, err, "failed to submit complaint")
		return
	}
	c.JSON(http.StatusCreated, common.CreateSuccessNoticeResponse(complaint,
		"Complaint Submitted", "Your complaint has been submitted successfully."))
}

// ListMine lists the resident's own complaints
// GET /complaints
func (h *Handler) ListMine(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	items, err := h.service.Mine(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err, "failed to load complaints")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"complaints": items,
		"counts":     CountByStatus(items),
	}))
}

// List searches every complaint
// GET /admin/complaints?q=&status=&category=
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.Search(c.Request.Context(), Filter{
		Query:    c.Query("q"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
	})
	if err != nil {
		fail(c, err, "failed to load complaints")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"complaints": items,
		"total":      len(items),
	}))
}

// UpdateStatus moves a complaint along
// PATCH /admin/complaints/:id
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	complaint, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		fail(c, err, "failed to update complaint")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessNoticeResponse(complaint,
		"Status Updated", "Complaint status has been updated successfully."))
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
