package feedback

import (
	"errors"
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

// Submit rates a meal
// POST /feedback
func (h *Handler) Submit(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	f, err := h.service.Submit(c.Request.Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, ErrRatingRequired) {
			c.JSON(http.StatusBadRequest, common.CreateNoticeResponse("Rating Required", ErrRatingRequired.Error()))
			return
		}
		fail(c, err, "failed to submit feedback")
		return
	}
	c.JSON(http.StatusCreated, common.CreateSuccessNoticeResponse(f, "Feedback Submitted",
		"Your feedback for "+string(f.MealType)+" has been submitted successfully."))
}

// ListMine lists the resident's feedback with replies
// GET /feedback
func (h *Handler) ListMine(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	items, err := h.service.Mine(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err, "failed to load feedback")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"feedback": items,
		"total":    len(items),
	}))
}

// List searches all feedback
// GET /admin/feedback?q=&rating=
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.Search(c.Request.Context(), Filter{
		Query:  c.Query("q"),
		Rating: c.Query("rating"),
	})
	if err != nil {
		fail(c, err, "failed to load feedback")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"feedback": items,
		"total":    len(items),
	}))
}

// Respond replies to a feedback
// POST /admin/feedback/:id/responses
func (h *Handler) Respond(c *gin.Context) {
	admin := auth.GetUserFromContext(c)
	if admin == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	f, err := h.service.Respond(c.Request.Context(), c.Param("id"), admin.ID, req.Response)
	if err != nil {
		fail(c, err, "failed to send response")
		return
	}
	c.JSON(http.StatusCreated, common.CreateSuccessNoticeResponse(f, "Response sent", "Your response has been sent successfully."))
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
