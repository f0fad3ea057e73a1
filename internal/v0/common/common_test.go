package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		name   string
		q      string
		fields []string
		want   bool
	}{
		{"empty query", "", []string{"anything"}, true},
		{"case insensitive", "PANEER", []string{"Paneer Butter Masala"}, true},
		{"second field", "curry", []string{"Dal", "main curry"}, true},
		{"no match", "fish", []string{"Dal", "Rice"}, false},
		{"trimmed", "  dal ", []string{"Dal Makhani"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesQuery(tt.q, tt.fields...))
		})
	}
}

func TestMatchesFilter(t *testing.T) {
	assert.True(t, MatchesFilter("", "pending"))
	assert.True(t, MatchesFilter(FilterAll, "resolved"))
	assert.True(t, MatchesFilter("pending", "pending"))
	assert.False(t, MatchesFilter("pending", "resolved"))
}

func TestFilterSlice(t *testing.T) {
	got := FilterSlice([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, got)
	assert.Empty(t, FilterSlice([]int(nil), func(int) bool { return true }))
}

func TestParseMealTypeAndPreference(t *testing.T) {
	m, err := ParseMealType(" Lunch ")
	require.NoError(t, err)
	assert.Equal(t, Lunch, m)

	_, err = ParseMealType("brunch")
	assert.Error(t, err)

	p, err := ParseMealPreference("")
	require.NoError(t, err)
	assert.Equal(t, Veg, p)

	p, err = ParseMealPreference("Non-Veg")
	require.NoError(t, err)
	assert.Equal(t, NonVeg, p)

	_, err = ParseMealPreference("vegan")
	assert.Error(t, err)
}

func TestDayHelpers(t *testing.T) {
	d, err := ParseDay("2025-04-10", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-10", FormatDay(d))
	assert.Equal(t, "thursday", WeekdayKey(d))

	_, err = ParseDay("10/04/2025", time.UTC)
	assert.Error(t, err)

	assert.Equal(t, 0, Breakfast.Order())
	assert.Equal(t, 3, Dinner.Order())
	assert.Equal(t, 4, MealType("brunch").Order())
}

func TestNoticeResponses(t *testing.T) {
	resp := CreateNoticeResponse("Date Required", "Please select a date")
	require.NotNil(t, resp.Notice)
	assert.Equal(t, "Date Required", resp.Notice.Title)
	assert.Equal(t, []string{"Please select a date"}, resp.Errors)
	assert.Equal(t, "v0", resp.Metadata.Version)
	assert.NotEmpty(t, resp.Metadata.RequestID)

	ok := CreateSuccessNoticeResponse(1, "Booked", "done")
	assert.Empty(t, ok.Errors)
	assert.Equal(t, "default", ok.Notice.Variant)
}

func TestErrorStatus(t *testing.T) {
	cause := errors.New("bad date")
	err := Invalid(cause)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadRequest, ErrorStatus(err))
	assert.Equal(t, http.StatusNotFound, ErrorStatus(fmt.Errorf("menu: %w", ErrNotFound)))
	assert.Equal(t, http.StatusInternalServerError, ErrorStatus(errors.New("disk")))
}
