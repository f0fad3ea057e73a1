package profile

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

func TestRepositoryUpdateOnlySetFields(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	u, err := auth.NewRepository(db).CreateUser(ctx, auth.NewUser{
		Email: "asha@example.com", DisplayName: "Asha Rao", RegNumber: "REG-1", RoomNumber: "A-101",
	})
	require.NoError(t, err)
	repo := NewRepository(db)

	p, err := repo.Get(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "asha@example.com", p.Email)
	assert.Equal(t, ThemeLight, p.Theme)
	assert.Nil(t, p.PhoneNumber)

	room, phone := "C-310", "98765 43210"
	require.NoError(t, repo.Update(ctx, u.ID, ProfileUpdate{RoomNumber: &room, PhoneNumber: &phone}))
	p, err = repo.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "C-310", p.RoomNumber)
	assert.Equal(t, "REG-1", p.RegNumber)
	require.NotNil(t, p.PhoneNumber)
	assert.Equal(t, phone, *p.PhoneNumber)

	require.NoError(t, repo.SetTheme(ctx, u.ID, ThemeDark))
	theme, err := repo.GetTheme(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	missing, err := repo.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	db := newTestDB(t)
	u, err := auth.NewRepository(db).CreateUser(ctx, auth.NewUser{
		Email: "ravi@example.com", DisplayName: "Ravi Kumar", RegNumber: "REG-2", RoomNumber: "B-205",
	})
	require.NoError(t, err)
	h := NewHandler(NewRepository(db), nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.ContextKeyUser, u)
		c.Next()
	})
	r.GET("/profile", h.GetProfile)
	r.PATCH("/profile", h.UpdateProfile)
	r.GET("/profile/theme", h.GetTheme)
	r.PUT("/profile/theme", h.PutTheme)

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

	w := send(http.MethodPatch, "/profile", gin.H{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodPatch, "/profile", gin.H{"name": " Ravi K ", "avatar": "https://example.com/r.png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Data Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Ravi K", updated.Data.Name)
	assert.Equal(t, "B-205", updated.Data.RoomNumber)

	w = send(http.MethodPut, "/profile/theme", gin.H{"theme": "sepia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = send(http.MethodPut, "/profile/theme", gin.H{"theme": "dark"})
	require.Equal(t, http.StatusOK, w.Code)

	w = send(http.MethodGet, "/profile/theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"theme":"dark"`)

	w = send(http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ravi@example.com")
}
