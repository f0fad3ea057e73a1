package complaints

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"MessAPI/internal/auth"
	"MessAPI/internal/databases"
	"MessAPI/internal/realtime"
	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := databases.Open(filepath.Join(t.TempDir(), "mess.db"))
	require.NoError(t, err)
	require.NoError(t, databases.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newResident(t *testing.T, db *sql.DB, email, name string) *auth.User {
	t.Helper()
	u, err := auth.NewRepository(db).CreateUser(context.Background(), auth.NewUser{
		Email:       email,
		DisplayName: name,
		RegNumber:   "REG-7",
		RoomNumber:  "B-204",
	})
	require.NoError(t, err)
	return u
}

func TestFileListAndSearch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	asha := newResident(t, db, "asha@example.com", "Asha Rao")
	ravi := newResident(t, db, "ravi@example.com", "Ravi Kumar")
	s := NewService(NewRepository(db), nil, nil)

	_, err := s.File(ctx, asha.ID, CreateRequest{Subject: "Cold rice", Category: CategoryFoodQuality, Description: "Rice was cold at lunch"})
	require.NoError(t, err)
	_, err = s.File(ctx, ravi.ID, CreateRequest{Subject: "Late dinner", Category: CategoryTiming, Description: "Dinner opened at 8:30"})
	require.NoError(t, err)

	mine, err := s.Mine(ctx, asha.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, StatusPending, mine[0].Status)
	assert.Equal(t, Counts{Total: 1, Pending: 1}, CountByStatus(mine))

	all, err := s.Search(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := s.Search(ctx, Filter{Query: "ravi"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Late dinner", found[0].Subject)
	assert.Equal(t, "B-204", found[0].RoomNumber)

	found, err = s.Search(ctx, Filter{Category: "food-quality", Status: "all"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Asha Rao", found[0].ReporterName)
}

func TestFileValidates(t *testing.T) {
	s := NewService(NewRepository(newTestDB(t)), nil, nil)

	_, err := s.File(context.Background(), "u1", CreateRequest{Subject: "x", Category: "noise", Description: "y"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = s.File(context.Background(), "u1", CreateRequest{Subject: " ", Category: CategoryOther, Description: "y"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSetStatusPublishesToOwner(t *testing.T) {
	ctx := context.Background()
	hub := realtime.NewHub(nil)
	filter, err := realtime.ParseFilter(TableName, "user_id=eq.u1")
	require.NoError(t, err)
	sub := hub.Subscribe(filter, 0)
	defer sub.Close()

	s := NewService(NewRepository(newTestDB(t)), hub, nil)
	c, err := s.File(ctx, "u1", CreateRequest{Subject: "Dirty plates", Category: CategoryCleanliness, Description: "Plates not washed"})
	require.NoError(t, err)
	_, err = s.File(ctx, "u2", CreateRequest{Subject: "Other", Category: CategoryOther, Description: "Not mine"})
	require.NoError(t, err)

	updated, err := s.SetStatus(ctx, c.ID, StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, updated.Status)

	// Resolved complaints may be reopened.
	_, err = s.SetStatus(ctx, c.ID, StatusInProgress)
	require.NoError(t, err)

	_, err = s.SetStatus(ctx, c.ID, "closed")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = s.SetStatus(ctx, "missing", StatusResolved)
	assert.ErrorIs(t, err, common.ErrNotFound)

	events := sub.Drain()
	require.Len(t, events, 3)
	assert.Equal(t, realtime.Insert, events[0].Type)
	assert.Equal(t, realtime.Update, events[2].Type)
	assert.Equal(t, "in-progress", events[2].Columns["status"])
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	resident := newResident(t, db, "asha@example.com", "Asha Rao")
	h := NewHandler(NewService(NewRepository(db), nil, nil))

	var current *auth.User
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if current != nil {
			c.Set(auth.ContextKeyUser, current)
		}
		c.Next()
	})
	r.GET("/complaints", h.ListMine)
	r.POST("/complaints", h.Create)
	r.GET("/admin/complaints", h.List)
	r.PATCH("/admin/complaints/:id", h.UpdateStatus)

	send := func(method, path string, body any) *httptest.ResponseRecorder {
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

	w := send(http.MethodPost, "/complaints", gin.H{"subject": "x", "category": "other", "description": "y"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	current = resident
	w = send(http.MethodPost, "/complaints", gin.H{"subject": "Cold rice", "category": "food-quality", "description": "Rice was cold"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data Complaint `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, resident.ID, created.Data.OwnerID)

	w = send(http.MethodGet, "/complaints", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cold rice")

	current = &auth.User{ID: "admin-1", Role: auth.RoleAdmin}
	w = send(http.MethodPatch, "/admin/complaints/"+created.Data.ID, gin.H{"status": "resolved"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Notice common.Notice `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Status Updated", resp.Notice.Title)
	assert.Equal(t, "Complaint status has been updated successfully.", resp.Notice.Message)

	w = send(http.MethodPatch, "/admin/complaints/"+created.Data.ID, gin.H{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodGet, "/admin/complaints?status=resolved&q=asha", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.Data.ID)
}
