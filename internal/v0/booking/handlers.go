package booking

import (
	"bytes"
	"net/http"
	"time"

	"MessAPI/internal/auth"
	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves the booking views, history and reports.
type Handler struct {
	repo  *Repository
	views *ViewStore
	opts  ViewOptions
}

// NewHandler creates a booking handler. opts configures the short-lived views
// built for one-shot bookings.
func NewHandler(repo *Repository, views *ViewStore, opts ViewOptions) *Handler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Handler{repo: repo, views: views, opts: opts}
}

func writeError(c *gin.Context, err error) {
	if be, ok := AsError(err); ok {
		c.JSON(be.StatusCode(), common.CreateNoticeResponse(be.Title, be.Message))
		return
	}
	c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{err.Error()}))
}

func (h *Handler) viewFor(c *gin.Context) *View {
	user := auth.GetUserFromContext(c)
	if user == nil {
		return NewView(h.repo, Session{}, h.opts)
	}
	v := h.views.Get(user.ID)
	v.Sync()
	return v
}

// GetSlots returns the slot catalog
// GET /bookings/slots
func (h *Handler) GetSlots(c *gin.Context) {
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"meals": Catalog(),
	}))
}

// GetDay loads which meals are booked on a day
// GET /bookings/day?date=YYYY-MM-DD
func (h *Handler) GetDay(c *gin.Context) {
	v := h.viewFor(c)
	if date, ok := c.GetQuery("date"); ok {
		if err := v.SetDate(date); err != nil {
			writeError(c, err)
			return
		}
	}

	state, err := v.LoadDayState(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(state))
}

// PutSelection picks a slot for one meal type
// PUT /bookings/selection
func (h *Handler) PutSelection(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	meal, pref, err := parseSelection(req)
	if err != nil {
		writeError(c, err)
		return
	}

	v := h.viewFor(c)
	if err := v.EnsureDayState(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	if err := v.Select(meal, req.SlotID, pref); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(v.State()))
}

// PutPreference sets the dietary preference for one meal type
// PUT /bookings/preference
func (h *Handler) PutPreference(c *gin.Context) {
	var req struct {
		MealType   string `json:"mealType" binding:"required"`
		Preference string `json:"mealPreference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	meal, pref, err := parseSelection(SelectRequest{MealType: req.MealType, Preference: req.Preference})
	if err != nil {
		writeError(c, err)
		return
	}

	v := h.viewFor(c)
	v.SetPreference(meal, pref)
	c.JSON(http.StatusOK, common.CreateSuccessResponse(v.State()))
}

// DeleteSelection drops the pending pick for a meal type
// DELETE /bookings/selection/:meal
func (h *Handler) DeleteSelection(c *gin.Context) {
	meal, err := common.ParseMealType(c.Param("meal"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	v := h.viewFor(c)
	v.Clear(meal)
	c.JSON(http.StatusOK, common.CreateSuccessResponse(v.State()))
}

// Submit books the current selection
// POST /bookings/submit
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
			return
		}
	}

	v := h.viewFor(c)
	if req.Note != nil {
		v.SetNote(*req.Note)
	}
	h.submit(c, v)
}

// Book stages and submits in one request on a fresh view
// POST /bookings
func (h *Handler) Book(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	session := Session{}
	if user := auth.GetUserFromContext(c); user != nil {
		session.OwnerID = user.ID
	}
	v := NewView(h.repo, session, h.opts)
	if err := v.SetDate(req.Date); err != nil {
		writeError(c, err)
		return
	}

	for _, sel := range req.Selections {
		meal, pref, err := parseSelection(sel)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := v.Stage(meal, sel.SlotID, pref); err != nil {
			writeError(c, err)
			return
		}
	}
	if req.Note != nil {
		v.SetNote(*req.Note)
	}
	h.submit(c, v)
}

func (h *Handler) submit(c *gin.Context, v *View) {
	rows, err := v.Submit(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.CreateSuccessNoticeResponse(gin.H{
		"bookings": rows,
		"day":      v.State(),
	}, "Booking Successful", "Your meal time slots have been booked successfully."))
}

// GetHistory lists the resident's bookings, newest first
// GET /bookings/history
func (h *Handler) GetHistory(c *gin.Context) {
	history, err := h.viewFor(c).LoadHistory(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(history))
}

// GetStats summarises the resident's bookings for a month
// GET /bookings/stats?month=YYYY-MM
func (h *Handler) GetStats(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}

	month := c.Query("month")
	if month == "" {
		month = time.Now().In(h.opts.Location).Format("2006-01")
	}
	from, to, err := MonthRange(month)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	rows, err := h.repo.ListByOwner(c.Request.Context(), user.ID, ListFilter{From: from, To: to})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateNoticeResponse("Error loading meal statistics", "Could not load your meal booking data"))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(ComputeStats(month, rows)))
}

// dateRange reads from/to query parameters, defaulting both to today.
func (h *Handler) dateRange(c *gin.Context) (string, string, error) {
	today := common.FormatDay(time.Now().In(h.opts.Location))
	from, to := c.DefaultQuery("from", today), c.DefaultQuery("to", "")
	if to == "" {
		to = from
	}
	for _, d := range []string{from, to} {
		if _, err := common.ParseDay(d, h.opts.Location); err != nil {
			return "", "", err
		}
	}
	return from, to, nil
}

// ListBookings returns every booking in a date range
// GET /admin/bookings?from=&to=&meal=&q=
func (h *Handler) ListBookings(c *gin.Context) {
	from, to, err := h.dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	ctx := c.Request.Context()
	rows, err := h.repo.ListRange(ctx, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to list bookings"}))
		return
	}
	names, err := h.repo.OwnerNames(ctx, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to list bookings"}))
		return
	}

	meal, q := c.Query("meal"), c.Query("q")
	rows = common.FilterSlice(rows, func(r Reservation) bool {
		return common.MatchesFilter(meal, string(r.MealType)) &&
			common.MatchesQuery(q, names[r.OwnerID], r.TimeSlot)
	})

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"bookings":  rows,
		"residents": names,
		"total":     len(rows),
	}))
}

// GetHeadcount counts diners per slot for a day
// GET /admin/bookings/headcount?date=
func (h *Handler) GetHeadcount(c *gin.Context) {
	date := c.DefaultQuery("date", common.FormatDay(time.Now().In(h.opts.Location)))
	if _, err := common.ParseDay(date, h.opts.Location); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	counts, err := h.repo.Headcount(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to count bookings"}))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"date":      date,
		"headcount": counts,
	}))
}

// Export downloads bookings and headcounts as an Excel workbook
// GET /admin/bookings/export?from=&to=
func (h *Handler) Export(c *gin.Context) {
	from, to, err := h.dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	ctx := c.Request.Context()
	rows, err := h.repo.ListRange(ctx, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to list bookings"}))
		return
	}
	names, err := h.repo.OwnerNames(ctx, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to list bookings"}))
		return
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, rows, Headcounts(rows), names); err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to build export"}))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="bookings_`+from+`_`+to+`.xlsx"`)
	c.Data(http.StatusOK, excelContentType, buf.Bytes())
}

func parseSelection(req SelectRequest) (common.MealType, common.MealPreference, error) {
	meal, err := common.ParseMealType(req.MealType)
	if err != nil {
		return "", "", validationError(TitleInvalidSlot, err.Error())
	}
	var pref common.MealPreference
	if req.Preference != "" {
		pref, err = common.ParseMealPreference(req.Preference)
		if err != nil {
			return "", "", validationError("Invalid Preference", err.Error())
		}
	}
	return meal, pref, nil
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
