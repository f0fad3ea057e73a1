package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MessAPI/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamServer(t *testing.T, hub *Hub, user *auth.User) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/realtime/stream", func(c *gin.Context) {
		if user != nil {
			c.Set(auth.ContextKeyUser, user)
		}
		c.Next()
	}, NewHandler(hub).Stream)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestStreamRejectsUnknownTable(t *testing.T) {
	srv := streamServer(t, NewHub(nil), &auth.User{ID: "u1", Role: auth.RoleResident})

	resp, err := http.Get(srv.URL + "/realtime/stream?table=users")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStreamRequiresUser(t *testing.T) {
	srv := streamServer(t, NewHub(nil), nil)

	resp, err := http.Get(srv.URL + "/realtime/stream?table=announcements")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStreamScopesOwnerTables(t *testing.T) {
	hub := NewHub(nil)
	srv := streamServer(t, hub, &auth.User{ID: "u1", Role: auth.RoleResident})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/realtime/stream?table=meal_bookings", http.NoBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return hub.SubscriberCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	pub := context.Background()
	require.NoError(t, hub.Publish(pub, mustEvent(t, "meal_bookings", Insert, "other", map[string]string{"user_id": "u2"})))
	require.NoError(t, hub.Publish(pub, mustEvent(t, "meal_bookings", Insert, "mine", map[string]string{"user_id": "u1"})))

	scanner := bufio.NewScanner(resp.Body)
	var data string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data:") {
			data = line
			break
		}
	}
	assert.Contains(t, data, `"recordId":"mine"`)
	assert.NotContains(t, data, "other")
}
