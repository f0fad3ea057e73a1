package profile

import (
	"fmt"
	"net/http"
	"strings"

	"MessAPI/internal/auth"
	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	repo   *Repository
	logger *zerolog.Logger
}

func NewHandler(repo *Repository, logger *zerolog.Logger) *Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handler{repo: repo, logger: logger}
}

func fail(c *gin.Context, err error, msg string) {
	status := common.ErrorStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, common.CreateErrorResponse([]string{msg}))
		return
	}
	c.JSON(status, common.CreateErrorResponse([]string{err.Error()}))
}

// GetProfile returns the caller's profile
// GET /profile
func (h *Handler) GetProfile(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	p, err := h.repo.Get(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID).Msg("load profile failed")
		fail(c, err, "failed to load profile")
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{"profile not found"}))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(p))
}

// UpdateProfile changes the caller's profile fields
// PATCH /profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	var req ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	if err := normalize(&req); err != nil {
		fail(c, err, "")
		return
	}

	ctx := c.Request.Context()
	if !req.empty() {
		if err := h.repo.Update(ctx, user.ID, req); err != nil {
			fail(c, err, "failed to update profile")
			return
		}
	}
	p, err := h.repo.Get(ctx, user.ID)
	if err != nil || p == nil {
		fail(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessNoticeResponse(p, "Profile updated", "Your profile has been updated successfully."))
}

// normalize trims every set field. Name, registration and room numbers
// cannot be cleared.
func normalize(u *ProfileUpdate) error {
	required := map[string]*string{"name": u.Name, "regNumber": u.RegNumber, "roomNumber": u.RoomNumber}
	for _, v := range []*string{u.Name, u.RegNumber, u.RoomNumber, u.PhoneNumber, u.Avatar} {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
	for field, v := range required {
		if v != nil && *v == "" {
			return common.Invalid(fmt.Errorf("%s cannot be empty", field))
		}
	}
	return nil
}

// GetTheme returns the caller's theme
// GET /profile/theme
func (h *Handler) GetTheme(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	theme, err := h.repo.GetTheme(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err, "failed to load theme")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{"theme": theme}))
}

// PutTheme stores the caller's theme
// PUT /profile/theme
func (h *Handler) PutTheme(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	if !req.Theme.Valid() {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"theme must be light or dark"}))
		return
	}
	if err := h.repo.SetTheme(c.Request.Context(), user.ID, req.Theme); err != nil {
		fail(c, err, "failed to save theme")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{"theme": req.Theme}))
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
