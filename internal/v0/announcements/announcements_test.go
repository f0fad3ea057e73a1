package announcements

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

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

func boolPtr(b bool) *bool { return &b }

func TestActiveOrdersUrgentFirstAndHidesInactive(t *testing.T) {
	ctx := context.Background()
	s := NewService(NewRepository(newTestDB(t)), nil, nil)

	past := time.Now().Add(-time.Hour)
	_, err := s.Create(ctx, CreateRequest{Title: "Old", Content: "gone", ExpiresAt: &past}, "")
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateRequest{Title: "Hidden", Content: "off", IsActive: boolPtr(false)}, "")
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateRequest{Title: "Later", Content: "soon", Status: StatusScheduled}, "")
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateRequest{Title: "Water cut", Content: "no water", Priority: PriorityUrgent}, "admin-1")
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateRequest{Title: "Feast", Content: "Sunday", Type: TypeEvent}, "")
	require.NoError(t, err)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Water cut", active[0].Title)
	require.NotNil(t, active[0].CreatedBy)
	assert.Equal(t, "admin-1", *active[0].CreatedBy)
	assert.Equal(t, "Feast", active[1].Title)

	all, err := s.Search(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	found, err := s.Search(ctx, Filter{Query: "WATER"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = s.Search(ctx, Filter{Status: "scheduled", Priority: "all"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Later", found[0].Title)
}

func TestCreateValidates(t *testing.T) {
	s := NewService(NewRepository(newTestDB(t)), nil, nil)

	_, err := s.Create(context.Background(), CreateRequest{Title: "x", Content: "y", Priority: "critical"}, "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = s.Create(context.Background(), CreateRequest{Title: "  ", Content: "y"}, "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestUpdatePublishesAndDeletes(t *testing.T) {
	ctx := context.Background()
	hub := realtime.NewHub(nil)
	filter, err := realtime.ParseFilter(TableName, "is_active=eq.true", realtime.Insert)
	require.NoError(t, err)
	inserts := hub.Subscribe(filter, 0)
	defer inserts.Close()
	all := hub.Subscribe(realtime.Filter{Table: TableName}, 0)
	defer all.Close()

	s := NewService(NewRepository(newTestDB(t)), hub, nil)
	a, err := s.Create(ctx, CreateRequest{Title: "Menu change", Content: "Paneer on Friday", Type: TypeMenu}, "")
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateRequest{Title: "Draft", Content: "later", IsActive: boolPtr(false)}, "")
	require.NoError(t, err)

	events := inserts.Drain()
	require.Len(t, events, 1)
	var got Announcement
	require.NoError(t, events[0].Decode(&got))
	assert.Equal(t, "Menu change", got.Title)

	expired := StatusExpired
	exp := time.Now().Add(24 * time.Hour)
	updated, err := s.Update(ctx, a.ID, Update{Status: &expired, ExpiresAt: &exp})
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, updated.Status)
	require.NotNil(t, updated.ExpiresAt)

	updated, err = s.Update(ctx, a.ID, Update{ClearExpiry: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ExpiresAt)
	assert.Equal(t, "Paneer on Friday", updated.Content)

	bad := Priority("loud")
	_, err = s.Update(ctx, a.ID, Update{Priority: &bad})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = s.Update(ctx, "missing", Update{})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), common.ErrNotFound)

	events = all.Drain()
	require.Len(t, events, 5)
	assert.Equal(t, realtime.Delete, events[4].Type)
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(NewRepository(newTestDB(t)), nil, nil))
	admin := &auth.User{ID: "admin-1", Role: auth.RoleAdmin}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.ContextKeyUser, admin)
		c.Next()
	})
	r.GET("/announcements", h.GetActive)
	r.GET("/admin/announcements", h.List)
	r.GET("/admin/announcements/:id", h.Get)
	r.POST("/admin/announcements", h.Create)
	r.PATCH("/admin/announcements/:id", h.Update)
	r.DELETE("/admin/announcements/:id", h.Delete)

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

	w := send(http.MethodPost, "/admin/announcements", gin.H{"title": "Holiday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodPost, "/admin/announcements", gin.H{"title": "Holiday", "content": "Mess closed Monday", "priority": "important"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data   Announcement   `json:"data"`
		Notice *common.Notice `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Announcement created", created.Notice.Title)
	require.NotNil(t, created.Data.CreatedBy)
	assert.Equal(t, "admin-1", *created.Data.CreatedBy)

	w = send(http.MethodGet, "/announcements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mess closed Monday")

	w = send(http.MethodPatch, "/admin/announcements/"+created.Data.ID, gin.H{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = send(http.MethodGet, "/announcements", nil)
	assert.NotContains(t, w.Body.String(), "Mess closed Monday")

	w = send(http.MethodGet, "/admin/announcements?q=holiday&priority=important", nil)
	assert.Contains(t, w.Body.String(), created.Data.ID)

	w = send(http.MethodPatch, "/admin/announcements/nope", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = send(http.MethodGet, "/admin/announcements/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(http.MethodDelete, "/admin/announcements/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
