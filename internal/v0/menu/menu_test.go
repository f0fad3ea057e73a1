package menu

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"MessAPI/internal/databases"
	"MessAPI/internal/realtime"
	"MessAPI/internal/v0/common"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A Thursday.
var testToday = time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := databases.Open(filepath.Join(t.TempDir(), "mess.db"))
	require.NoError(t, err)
	require.NoError(t, databases.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestService(t *testing.T, publisher Publisher) *Service {
	t.Helper()
	s := NewService(NewRepository(newTestDB(t)), publisher, time.UTC, nil)
	s.clock = func() time.Time { return testToday }
	return s
}

func TestResolveWithoutOverridesIsFallback(t *testing.T) {
	week := Resolve(testToday, nil, nil)
	assert.Equal(t, "thursday", week.Today)
	assert.Equal(t, "2025-04-10", week.Date)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "monday", week.Days[0].Day)
	assert.Equal(t, "sunday", week.Days[6].Day)

	for _, key := range common.WeekdayKeys {
		assert.Equal(t, Fallback(key), week.Day(key))
		for _, m := range common.MealTypes {
			assert.NotEmpty(t, week.Day(key).Get(m))
		}
	}
	assert.Equal(t, "Paratha, Curd, Fruits, Coffee/Tea", week.Day("thursday").Breakfast)
}

func TestResolveScheduledOverrides(t *testing.T) {
	scheduled := []ScheduledMenu{
		// Monday, next week.
		{Date: "2025-04-14", MealType: common.Lunch, Items: []string{"Biryani", " Raita "}, Published: true},
		// Not published.
		{Date: "2025-04-15", MealType: common.Lunch, Items: []string{"Hidden"}, Published: false},
		// In the past.
		{Date: "2025-04-09", MealType: common.Dinner, Items: []string{"Stale"}, Published: true},
		// Two Mondays, the nearer wins whatever the input order.
		{Date: "2025-04-21", MealType: common.Dinner, Items: []string{"Far"}, Published: true},
		{Date: "2025-04-14", MealType: common.Dinner, Items: []string{"Near"}, Published: true},
		// Empty items leave the cell alone.
		{Date: "2025-04-12", MealType: common.Snacks, Items: []string{" "}, Published: true},
		// Today counts.
		{Date: "2025-04-10", MealType: common.Lunch, Items: []string{"Thali"}, Published: true},
	}

	week := Resolve(testToday, scheduled, nil)
	assert.Equal(t, "Biryani, Raita", week.Day("monday").Lunch)
	assert.Equal(t, "Near", week.Day("monday").Dinner)
	assert.Equal(t, Fallback("tuesday").Lunch, week.Day("tuesday").Lunch)
	assert.Equal(t, Fallback("wednesday").Dinner, week.Day("wednesday").Dinner)
	assert.Equal(t, Fallback("saturday").Snacks, week.Day("saturday").Snacks)
	assert.Equal(t, "Thali", week.Day("thursday").Lunch)
}

func TestResolveDailyOverrideWinsForToday(t *testing.T) {
	scheduled := []ScheduledMenu{
		{Date: "2025-04-10", MealType: common.Lunch, Items: []string{"Thali"}, Published: true},
	}
	daily := &DailyMenu{
		Date:   "2025-04-10",
		Lunch:  strPtr("Special Pulao"),
		Dinner: strPtr("   "),
	}

	week := Resolve(testToday, scheduled, daily)
	today := week.Day("thursday")
	assert.Equal(t, "Special Pulao", today.Lunch)
	assert.Equal(t, Fallback("thursday").Dinner, today.Dinner)
	assert.Equal(t, Fallback("thursday").Breakfast, today.Breakfast)

	// Only today's exact date applies.
	daily.Date = "2025-04-17"
	week = Resolve(testToday, nil, daily)
	assert.Equal(t, Fallback("thursday").Lunch, week.Day("thursday").Lunch)
}

func TestRepositoryScheduledAndItems(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	m, err := NewScheduledMenu(ScheduledMenuRequest{Date: "2025-04-14", MealType: "Lunch", Items: []string{"Biryani"}}, time.UTC)
	require.NoError(t, err)
	created, err := repo.CreateScheduled(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, common.Lunch, created.MealType)
	assert.Equal(t, []string{"Biryani"}, created.Items)
	assert.False(t, created.Published)

	published, err := repo.ListScheduled(ctx, ScheduledFilter{From: "2025-04-10", PublishedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, published)

	created.Published = true
	require.NoError(t, repo.UpdateScheduled(ctx, *created))
	published, err = repo.ListScheduled(ctx, ScheduledFilter{From: "2025-04-10", PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, published, 1)

	assert.ErrorIs(t, repo.DeleteScheduled(ctx, "missing"), common.ErrNotFound)

	_, err = NewScheduledMenu(ScheduledMenuRequest{Date: "2025-04-14", MealType: "brunch", Items: []string{"x"}}, time.UTC)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	item, err := repo.CreateItem(ctx, MenuItem{Name: "Paneer Tikka", Category: "main", Description: strPtr("grilled"), Vegetarian: true})
	require.NoError(t, err)
	require.NotNil(t, item.Description)
	item.Vegetarian = false
	require.NoError(t, repo.UpdateItem(ctx, *item))
	got, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.Vegetarian)
	require.NoError(t, repo.DeleteItem(ctx, item.ID))
	got, err = repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestServiceDailyMenuPublishesAndInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hub := realtime.NewHub(nil)
	filter, err := realtime.ParseFilter(DailyTable, "date=eq.2025-04-10")
	require.NoError(t, err)
	sub := hub.Subscribe(filter, 0)
	defer sub.Close()

	s := newTestService(t, hub)
	s.UseRedisCache(rdb, time.Minute)

	week, err := s.Week(ctx)
	require.NoError(t, err)
	assert.Equal(t, Fallback("thursday").Lunch, week.Day("thursday").Lunch)
	assert.True(t, mr.Exists(weekKeyPrefix+"2025-04-10"))

	saved, created, err := s.SaveDailyMenu(ctx, DailyMenuRequest{Lunch: strPtr("Special Pulao")})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "2025-04-10", saved.Date)
	assert.False(t, mr.Exists(weekKeyPrefix+"2025-04-10"))

	events := sub.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.Insert, events[0].Type)
	var got DailyMenu
	require.NoError(t, events[0].Decode(&got))
	assert.Equal(t, "Special Pulao", *got.Lunch)

	week, err = s.Week(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Special Pulao", week.Day("thursday").Lunch)

	_, created, err = s.SaveDailyMenu(ctx, DailyMenuRequest{Date: "2025-04-10", Dinner: strPtr("Khichdi")})
	require.NoError(t, err)
	assert.False(t, created)
	events = sub.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.Update, events[0].Type)

	require.NoError(t, s.DeleteDailyMenu(ctx, "2025-04-10"))
	assert.ErrorIs(t, s.DeleteDailyMenu(ctx, "2025-04-10"), common.ErrNotFound)
}

func TestServiceCacheFailureFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	s := newTestService(t, nil)
	s.UseRedisCache(rdb, time.Minute)
	mr.Close()

	week, err := s.Week(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "thursday", week.Today)
}

func TestServiceScheduledUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	m, err := NewScheduledMenu(ScheduledMenuRequest{Date: "2025-04-14", MealType: "dinner", Items: []string{"Near"}}, time.UTC)
	require.NoError(t, err)
	created, err := s.CreateScheduled(ctx, m)
	require.NoError(t, err)

	week, err := s.Week(ctx)
	require.NoError(t, err)
	assert.Equal(t, Fallback("monday").Dinner, week.Day("monday").Dinner)

	published := true
	_, err = s.UpdateScheduled(ctx, created.ID, ScheduledMenuUpdate{Published: &published})
	require.NoError(t, err)
	week, err = s.Week(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Near", week.Day("monday").Dinner)

	bad := "someday"
	_, err = s.UpdateScheduled(ctx, created.ID, ScheduledMenuUpdate{Date: &bad})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = s.UpdateScheduled(ctx, "missing", ScheduledMenuUpdate{})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
