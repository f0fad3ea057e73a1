package booking

import "MessAPI/internal/v0/common"

// Slot is one bookable serving window.
type Slot struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// The slot catalog is fixed. Slots have no capacity.
var catalog = map[common.MealType][]Slot{
	common.Breakfast: {
		{ID: "b1", Label: "7:30 AM - 8:00 AM"},
		{ID: "b2", Label: "8:00 AM - 8:30 AM"},
		{ID: "b3", Label: "8:30 AM - 9:00 AM"},
	},
	common.Lunch: {
		{ID: "l1", Label: "12:30 PM - 1:00 PM"},
		{ID: "l2", Label: "1:00 PM - 1:30 PM"},
		{ID: "l3", Label: "1:30 PM - 2:00 PM"},
	},
	common.Snacks: {
		{ID: "s1", Label: "4:30 PM - 5:00 PM"},
		{ID: "s2", Label: "5:00 PM - 5:30 PM"},
	},
	common.Dinner: {
		{ID: "d1", Label: "7:30 PM - 8:00 PM"},
		{ID: "d2", Label: "8:00 PM - 8:30 PM"},
		{ID: "d3", Label: "8:30 PM - 9:00 PM"},
	},
}

// Slots returns the windows for meal in serving order.
func Slots(meal common.MealType) []Slot {
	out := make([]Slot, len(catalog[meal]))
	copy(out, catalog[meal])
	return out
}

// SlotLabel resolves a slot id to its display label.
func SlotLabel(meal common.MealType, id string) (string, bool) {
	for _, s := range catalog[meal] {
		if s.ID == id {
			return s.Label, true
		}
	}
	return "", false
}

// MealSlots groups the catalog for one meal type.
type MealSlots struct {
	MealType common.MealType `json:"mealType"`
	Slots    []Slot          `json:"slots"`
}

// Catalog lists every meal type and its slots in serving order.
func Catalog() []MealSlots {
	out := make([]MealSlots, 0, len(common.MealTypes))
	for _, m := range common.MealTypes {
		out = append(out, MealSlots{MealType: m, Slots: Slots(m)})
	}
	return out
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
