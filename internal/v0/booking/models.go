package booking

import (
	"time"

	"MessAPI/internal/v0/common"
)

// TableName is the reservation table and its realtime channel name.
const TableName = "meal_bookings"

// Reservation is one booked meal for one owner and day.
type Reservation struct {
	ID         string                `json:"id"`
	OwnerID    string                `json:"userId"`
	Date       string                `json:"bookingDate"`
	MealType   common.MealType       `json:"mealType"`
	TimeSlot   string                `json:"timeSlot"`
	Preference common.MealPreference `json:"mealPreference"`
	Note       *string               `json:"note,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

func (r Reservation) Key() string { return r.ID }

func (r Reservation) Version() time.Time {
	if r.UpdatedAt.IsZero() {
		return r.CreatedAt
	}
	return r.UpdatedAt
}

// Session identifies the resident a view acts for.
type Session struct {
	OwnerID string
}

// Selection is the pending choice for one meal type.
type Selection struct {
	SlotID     string                `json:"slotId"`
	Label      string                `json:"label"`
	Preference common.MealPreference `json:"mealPreference"`
}

// ListFilter narrows an owner's reservations. Date is an exact day; From and
// To bound an inclusive range. Zero values mean no bound.
type ListFilter struct {
	Date string
	From string
	To   string
}

// DayState is the booking picture for the view's date.
type DayState struct {
	Date      string                        `json:"date"`
	Booked    []common.MealType             `json:"booked"`
	Bookings  []Reservation                 `json:"bookings"`
	Selection map[common.MealType]Selection `json:"selection"`
	Note      string                        `json:"note,omitempty"`
}

// History is the owner's reservations, newest first.
type History struct {
	Bookings []Reservation `json:"bookings"`
	Message  string        `json:"message,omitempty"`
}

// EmptyHistoryMessage is shown when the owner has never booked.
const EmptyHistoryMessage = "no bookings yet"

// HeadcountRow is the number of diners for one slot and preference.
type HeadcountRow struct {
	Date       string                `json:"date"`
	MealType   common.MealType       `json:"mealType"`
	TimeSlot   string                `json:"timeSlot"`
	Preference common.MealPreference `json:"mealPreference"`
	Count      int                   `json:"count"`
}

// Requests

type SelectRequest struct {
	MealType   string `json:"mealType" binding:"required"`
	SlotID     string `json:"slotId" binding:"required"`
	Preference string `json:"mealPreference"`
}

type SubmitRequest struct {
	Note *string `json:"note"`
}

// BookRequest books several meals in one call.
type BookRequest struct {
	Date       string          `json:"date"`
	Selections []SelectRequest `json:"selections"`
	Note       *string         `json:"note"`
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
