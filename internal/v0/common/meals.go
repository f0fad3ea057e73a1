package common

import (
	"fmt"
	"strings"
	"time"
)

// MealType is one of the four daily mess services.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Snacks    MealType = "snacks"
	Dinner    MealType = "dinner"
)

// MealTypes lists the services in serving order.
var MealTypes = []MealType{Breakfast, Lunch, Snacks, Dinner}

func ParseMealType(s string) (MealType, error) {
	m := MealType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range MealTypes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown meal type %q", s)
}

// Order returns the serving position of m, or len(MealTypes) when unknown.
func (m MealType) Order() int {
	for i, known := range MealTypes {
		if m == known {
			return i
		}
	}
	return len(MealTypes)
}

// MealPreference is the diner's choice for a booked meal.
type MealPreference string

const (
	Veg    MealPreference = "veg"
	NonVeg MealPreference = "non-veg"
)

// DefaultPreference applies when a booking carries no preference.
const DefaultPreference = Veg

func ParseMealPreference(s string) (MealPreference, error) {
	switch MealPreference(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultPreference, nil
	case Veg:
		return Veg, nil
	case NonVeg, "nonveg", "non_veg":
		return NonVeg, nil
	}
	return "", fmt.Errorf("unknown meal preference %q", s)
}

// DayLayout is the ISO day format used for every date column.
const DayLayout = "2006-01-02"

func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses an ISO day in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Weekday keys as used by the menu grid.
var WeekdayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayKey maps t to its lowercase weekday name.
func WeekdayKey(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
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
