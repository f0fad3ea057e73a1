package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MessAPI/internal/auth"
	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func bookingRouter(t *testing.T, repo *Repository, user *auth.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts := testOptions()
	views := NewViewStore(time.Minute, func(s Session) *View { return NewView(repo, s, opts) })
	h := NewHandler(repo, views, opts)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(auth.ContextKeyUser, user)
		}
		c.Next()
	})
	r.GET("/bookings/day", h.GetDay)
	r.PUT("/bookings/selection", h.PutSelection)
	r.POST("/bookings/submit", h.Submit)
	r.POST("/bookings", h.Book)
	r.GET("/bookings/history", h.GetHistory)
	r.GET("/admin/bookings/headcount", h.GetHeadcount)
	r.GET("/admin/bookings/export", h.Export)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data any) common.APIResponse {
	t.Helper()
	var raw struct {
		Data   json.RawMessage `json:"data"`
		Errors []string        `json:"errors"`
		Notice *common.Notice  `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return common.APIResponse{Errors: raw.Errors, Notice: raw.Notice}
}

func TestSelectThenSubmitOverHTTP(t *testing.T) {
	repo := NewRepository(newTestDB(t), false)
	r := bookingRouter(t, repo, &auth.User{ID: "U1", Role: auth.RoleResident})

	w := doJSON(t, r, http.MethodGet, "/bookings/day?date=2025-04-10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/bookings/selection", gin.H{"mealType": "lunch", "slotId": "l2", "mealPreference": "non-veg"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/bookings/selection", gin.H{"mealType": "lunch", "slotId": "x9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w, nil)
	require.NotNil(t, resp.Notice)
	assert.Equal(t, TitleInvalidSlot, resp.Notice.Title)

	w = doJSON(t, r, http.MethodPost, "/bookings/submit", gin.H{"note": "late"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Bookings []Reservation `json:"bookings"`
		Day      DayState      `json:"day"`
	}
	resp = decodeResponse(t, w, &created)
	require.Len(t, created.Bookings, 1)
	assert.Equal(t, "1:00 PM - 1:30 PM", created.Bookings[0].TimeSlot)
	require.NotNil(t, created.Bookings[0].Note)
	assert.Equal(t, []common.MealType{common.Lunch}, created.Day.Booked)
	assert.Equal(t, "Booking Successful", resp.Notice.Title)

	w = doJSON(t, r, http.MethodPost, "/bookings/submit", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp = decodeResponse(t, w, nil)
	assert.Equal(t, TitleNoSlots, resp.Notice.Title)

	var history History
	w = doJSON(t, r, http.MethodGet, "/bookings/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeResponse(t, w, &history)
	assert.Len(t, history.Bookings, 1)
}

func TestOneShotBookingConflict(t *testing.T) {
	repo := NewRepository(newTestDB(t), false)
	r := bookingRouter(t, repo, &auth.User{ID: "U1", Role: auth.RoleResident})
	body := gin.H{
		"date": "2025-04-10",
		"selections": []gin.H{
			{"mealType": "breakfast", "slotId": "b2"},
			{"mealType": "dinner", "slotId": "d3", "mealPreference": "non-veg"},
		},
	}

	w := doJSON(t, r, http.MethodPost, "/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/bookings", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w, nil)
	assert.Equal(t, TitleAlreadyBooked, resp.Notice.Title)
	assert.Equal(t, "destructive", resp.Notice.Variant)

	w = doJSON(t, r, http.MethodPost, "/bookings", gin.H{"date": "2025-04-11"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, TitleNoSlots, decodeResponse(t, w, nil).Notice.Title)
}

func TestSelectionOnFreshViewSeesStoredBookings(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t), false)
	require.NoError(t, repo.InsertBatch(ctx, []Reservation{existing("U1", "2025-04-10", common.Lunch)}))
	r := bookingRouter(t, repo, &auth.User{ID: "U1", Role: auth.RoleResident})

	w := doJSON(t, r, http.MethodPut, "/bookings/selection", gin.H{"mealType": "lunch", "slotId": "l2"})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, TitleAlreadyBooked, decodeResponse(t, w, nil).Notice.Title)

	w = doJSON(t, r, http.MethodPut, "/bookings/selection", gin.H{"mealType": "dinner", "slotId": "d1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var state DayState
	decodeResponse(t, w, &state)
	assert.Equal(t, []common.MealType{common.Lunch}, state.Booked)

	w = doJSON(t, r, http.MethodPost, "/bookings/submit", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	rows, err := repo.ListByOwner(ctx, "U1", ListFilter{Date: "2025-04-10"})
	require.NoError(t, err)
	lunches := 0
	for _, row := range rows {
		if row.MealType == common.Lunch {
			lunches++
		}
	}
	assert.Equal(t, 1, lunches)
	assert.Len(t, rows, 2)
}

func TestOneShotBookingNamesEveryConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t), false)
	require.NoError(t, repo.InsertBatch(ctx, []Reservation{
		existing("U1", "2025-04-10", common.Lunch),
		existing("U1", "2025-04-10", common.Dinner),
	}))
	r := bookingRouter(t, repo, &auth.User{ID: "U1", Role: auth.RoleResident})

	w := doJSON(t, r, http.MethodPost, "/bookings", gin.H{
		"date": "2025-04-10",
		"selections": []gin.H{
			{"mealType": "lunch", "slotId": "l1"},
			{"mealType": "dinner", "slotId": "d1"},
		},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w, nil)
	assert.Equal(t, "You have already booked lunch, dinner for this date", resp.Notice.Message)

	w = doJSON(t, r, http.MethodPost, "/bookings", gin.H{
		"selections": []gin.H{{"mealType": "snacks", "slotId": "s1"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, TitleDateRequired, decodeResponse(t, w, nil).Notice.Title)

	rows, err := repo.ListByOwner(ctx, "U1", ListFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestBookingRequiresUser(t *testing.T) {
	r := bookingRouter(t, NewRepository(newTestDB(t), false), nil)
	w := doJSON(t, r, http.MethodGet, "/bookings/day", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, TitleAuthRequired, decodeResponse(t, w, nil).Notice.Title)
}

func TestAdminHeadcountAndExport(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t), false)
	v := NewView(repo, Session{OwnerID: "U1"}, testOptions())
	require.NoError(t, v.Select(common.Lunch, "l1", ""))
	_, err := v.Submit(ctx)
	require.NoError(t, err)

	r := bookingRouter(t, repo, &auth.User{ID: "A1", Role: auth.RoleAdmin})

	w := doJSON(t, r, http.MethodGet, "/admin/bookings/headcount?date=2025-04-10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hc struct {
		Headcount []HeadcountRow `json:"headcount"`
	}
	decodeResponse(t, w, &hc)
	require.Len(t, hc.Headcount, 1)
	assert.Equal(t, 1, hc.Headcount[0].Count)

	w = doJSON(t, r, http.MethodGet, "/admin/bookings/export?from=2025-04-01&to=2025-04-30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, excelContentType, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Bookings", "Headcount"}, f.GetSheetList())

	meal, err := f.GetCellValue("Bookings", "C2")
	require.NoError(t, err)
	assert.Equal(t, "lunch", meal)
	count, err := f.GetCellValue("Headcount", "E2")
	require.NoError(t, err)
	assert.Equal(t, "1", count)
}
