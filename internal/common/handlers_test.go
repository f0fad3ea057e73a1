package common

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"MessAPI/internal/databases"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthRouter(t *testing.T, h *Health) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, r.Group("/api"), h)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestProbes(t *testing.T) {
	db, err := databases.Open(filepath.Join(t.TempDir(), "mess.db"))
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := healthRouter(t, NewHealth(db, rdb))

	assert.Equal(t, http.StatusOK, get(r, "/healthz").Code)
	w := get(r, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uptime")

	w = get(r, "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)

	mr.Close()
	w = get(r, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	db.Close()
	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/api/status").Code)
	assert.Equal(t, http.StatusOK, get(r, "/healthz").Code)
}
