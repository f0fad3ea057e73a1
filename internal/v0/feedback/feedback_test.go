package feedback

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

func TestSubmitValidates(t *testing.T) {
	s := NewService(NewRepository(newTestDB(t)), nil, nil)
	ctx := context.Background()

	_, err := s.Submit(ctx, "u1", SubmitRequest{MealType: "Lunch"})
	assert.ErrorIs(t, err, ErrRatingRequired)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = s.Submit(ctx, "u1", SubmitRequest{MealType: "brunch", Rating: RatingGood})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = s.Submit(ctx, "u1", SubmitRequest{MealType: "lunch", Rating: "meh"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	f, err := s.Submit(ctx, "u1", SubmitRequest{MealType: "Dinner", Rating: RatingExcellent, Comment: "  great paneer "})
	require.NoError(t, err)
	assert.Equal(t, common.Dinner, f.MealType)
	assert.Equal(t, "great paneer", f.Comment)
	assert.Empty(t, f.Responses)
}

func TestRespondAndList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	owner, err := auth.NewRepository(db).CreateUser(ctx, auth.NewUser{Email: "lisa@example.com", DisplayName: "Lisa Wong", RoomNumber: "A-110"})
	require.NoError(t, err)

	hub := realtime.NewHub(nil)
	filter, err := realtime.ParseFilter(ResponseTableName, "user_id=eq."+owner.ID)
	require.NoError(t, err)
	sub := hub.Subscribe(filter, 0)
	defer sub.Close()

	s := NewService(NewRepository(db), hub, nil)
	f, err := s.Submit(ctx, owner.ID, SubmitRequest{MealType: "dinner", Rating: RatingExcellent, Comment: "The special dinner was amazing"})
	require.NoError(t, err)
	_, err = s.Submit(ctx, "someone-else", SubmitRequest{MealType: "lunch", Rating: RatingPoor, Comment: "Undercooked rice"})
	require.NoError(t, err)

	replied, err := s.Respond(ctx, f.ID, "admin-1", "Thank you for your kind feedback!")
	require.NoError(t, err)
	require.Len(t, replied.Responses, 1)

	_, err = s.Respond(ctx, f.ID, "admin-1", "   ")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = s.Respond(ctx, "missing", "admin-1", "hello")
	assert.ErrorIs(t, err, common.ErrNotFound)

	events := sub.Drain()
	require.Len(t, events, 1)
	var resp Response
	require.NoError(t, events[0].Decode(&resp))
	assert.Equal(t, f.ID, resp.FeedbackID)

	mine, err := s.Mine(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Len(t, mine[0].Responses, 1)
	assert.Equal(t, "Thank you for your kind feedback!", mine[0].Responses[0].Response)

	found, err := s.Search(ctx, Filter{Query: "lisa"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "A-110", found[0].RoomNumber)

	found, err = s.Search(ctx, Filter{Rating: "poor"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Undercooked rice", found[0].Comment)
	assert.Empty(t, found[0].Responses)
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(NewRepository(newTestDB(t)), nil, nil))

	var current *auth.User
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if current != nil {
			c.Set(auth.ContextKeyUser, current)
		}
		c.Next()
	})
	r.GET("/feedback", h.ListMine)
	r.POST("/feedback", h.Submit)
	r.GET("/admin/feedback", h.List)
	r.POST("/admin/feedback/:id/responses", h.Respond)

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

	current = &auth.User{ID: "u1", Role: auth.RoleResident}
	w := send(http.MethodPost, "/feedback", gin.H{"mealType": "lunch"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var failed struct {
		Notice common.Notice `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failed))
	assert.Equal(t, "Rating Required", failed.Notice.Title)

	w = send(http.MethodPost, "/feedback", gin.H{"mealType": "lunch", "rating": "good", "comment": "Tasty dal"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data   Feedback      `json:"data"`
		Notice common.Notice `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Feedback Submitted", created.Notice.Title)

	current = &auth.User{ID: "admin-1", Role: auth.RoleAdmin}
	w = send(http.MethodPost, "/admin/feedback/"+created.Data.ID+"/responses", gin.H{"response": "Glad you liked it"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = send(http.MethodPost, "/admin/feedback/nope/responses", gin.H{"response": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(http.MethodGet, "/admin/feedback?q=dal&rating=good", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Glad you liked it")

	current = &auth.User{ID: "u1", Role: auth.RoleResident}
	w = send(http.MethodGet, "/feedback", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Glad you liked it")
}
