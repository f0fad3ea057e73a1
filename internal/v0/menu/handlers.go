package menu

import (
	"net/http"
	"strings"

	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler serves the weekly menu and its admin editors
type Handler struct {
	service *Service
	logger  *zerolog.Logger
}

func NewHandler(service *Service, logger *zerolog.Logger) *Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	status := common.ErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("route", c.FullPath()).Msg(msg)
		c.JSON(status, common.CreateErrorResponse([]string{msg}))
		return
	}
	c.JSON(status, common.CreateErrorResponse([]string{err.Error()}))
}

// GetWeek returns the resolved seven-day grid
// GET /menu/week
func (h *Handler) GetWeek(c *gin.Context) {
	week, err := h.service.Week(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to load menu")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(week))
}

// GetToday returns today's column of the grid
// GET /menu/today
func (h *Handler) GetToday(c *gin.Context) {
	week, err := h.service.Week(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to load menu")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"date": week.Date,
		"menu": week.Day(week.Today),
	}))
}

// GetDaily returns the override row for a date, today by default
// GET /menu/daily?date=
func (h *Handler) GetDaily(c *gin.Context) {
	date := c.DefaultQuery("date", h.service.Today())
	if _, err := common.ParseDay(date, h.service.location); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	daily, err := h.service.Repository().GetDailyMenu(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateNoticeResponse("Error", "Could not fetch today's menu"))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"date":  date,
		"daily": daily,
	}))
}

// PutDaily creates or updates the override for a date
// PUT /admin/menu/daily
func (h *Handler) PutDaily(c *gin.Context) {
	var req DailyMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	if req.Date != "" {
		d, err := common.ParseDay(req.Date, h.service.location)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
			return
		}
		req.Date = common.FormatDay(d)
	}

	daily, created, err := h.service.SaveDailyMenu(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "failed to save daily menu")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, common.CreateSuccessNoticeResponse(daily, "Menu updated", "Today's menu has been updated"))
}

// DeleteDaily removes the override for a date
// DELETE /admin/menu/daily/:date
func (h *Handler) DeleteDaily(c *gin.Context) {
	if err := h.service.DeleteDailyMenu(c.Request.Context(), c.Param("date")); err != nil {
		h.fail(c, err, "failed to delete daily menu")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(nil))
}

// ListScheduled lists scheduled menus from a date on
// GET /admin/menu/scheduled?from=&published=
func (h *Handler) ListScheduled(c *gin.Context) {
	f := ScheduledFilter{
		From:          c.Query("from"),
		PublishedOnly: c.Query("published") == "true",
	}
	items, err := h.service.Repository().ListScheduled(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, "failed to list scheduled menus")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"scheduled": items,
		"total":     len(items),
	}))
}

// PostScheduled schedules a menu for a date and meal
// POST /admin/menu/scheduled
func (h *Handler) PostScheduled(c *gin.Context) {
	var req ScheduledMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	m, err := NewScheduledMenu(req, h.service.location)
	if err != nil {
		h.fail(c, err, "invalid scheduled menu")
		return
	}

	created, err := h.service.CreateScheduled(c.Request.Context(), m)
	if err != nil {
		h.fail(c, err, "failed to schedule menu")
		return
	}
	c.JSON(http.StatusCreated, common.CreateSuccessResponse(created))
}

// PatchScheduled changes a scheduled menu
// PATCH /admin/menu/scheduled/:id
func (h *Handler) PatchScheduled(c *gin.Context) {
	var u ScheduledMenuUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	h.updateScheduled(c, u)
}

// PublishScheduled makes a scheduled menu visible
// POST /admin/menu/scheduled/:id/publish
func (h *Handler) PublishScheduled(c *gin.Context) {
	published := true
	h.updateScheduled(c, ScheduledMenuUpdate{Published: &published})
}

func (h *Handler) updateScheduled(c *gin.Context, u ScheduledMenuUpdate) {
	updated, err := h.service.UpdateScheduled(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		h.fail(c, err, "failed to update scheduled menu")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(updated))
}

// DeleteScheduled removes a scheduled menu
// DELETE /admin/menu/scheduled/:id
func (h *Handler) DeleteScheduled(c *gin.Context) {
	if err := h.service.DeleteScheduled(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete scheduled menu")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(nil))
}

// ListItems searches the dish catalog
// GET /menu/items?q=&category=
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.service.Repository().ListItems(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to list menu items")
		return
	}

	q, category := c.Query("q"), c.Query("category")
	items = common.FilterSlice(items, func(it MenuItem) bool {
		desc := ""
		if it.Description != nil {
			desc = *it.Description
		}
		return common.MatchesQuery(q, it.Name, it.Category, desc) &&
			common.MatchesFilter(category, it.Category)
	})

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"items": items,
		"total": len(items),
	}))
}

// PostItem adds a dish
// POST /admin/menu/items
func (h *Handler) PostItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	it := MenuItem{
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Vegetarian:  true,
	}
	if req.Vegetarian != nil {
		it.Vegetarian = *req.Vegetarian
	}

	created, err := h.service.CreateItem(c.Request.Context(), it)
	if err != nil {
		h.fail(c, err, "failed to create menu item")
		return
	}
	c.JSON(http.StatusCreated, common.CreateSuccessNoticeResponse(created, "Menu item added", "The item has been added successfully."))
}

// PatchItem changes a dish
// PATCH /admin/menu/items/:id
func (h *Handler) PatchItem(c *gin.Context) {
	var u MenuItemUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	updated, err := h.service.UpdateItem(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		h.fail(c, err, "failed to update menu item")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessNoticeResponse(updated, "Menu item updated", "The item has been updated successfully."))
}

// DeleteItem removes a dish
// DELETE /admin/menu/items/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	if err := h.service.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete menu item")
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(nil))
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
