package booking

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"MessAPI/internal/v0/common"
)

// Kind classifies a booking failure.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindRemote     Kind = "remote"
)

// Error is a user-facing failure with a short title and a message.
type Error struct {
	Kind    Kind
	Title   string
	Message string
}

func (e *Error) Error() string {
	return e.Title + ": " + e.Message
}

// StatusCode maps the kind onto an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ErrDuplicateBooking is returned by a store that enforces one reservation
// per owner, day and meal type.
var ErrDuplicateBooking = errors.New("a booking for this meal already exists")

const (
	TitleAuthRequired  = "Authentication Required"
	TitleDateRequired  = "Date Required"
	TitleNoSlots       = "No Slots Selected"
	TitleAlreadyBooked = "Already Booked"
	TitleInvalidSlot   = "Invalid Slot"
	TitleInvalidDate   = "Invalid Date"
	TitleBookingFailed = "Booking Failed"
	TitleLoadFailed    = "Error loading bookings"
)

func validationError(title, msg string) *Error {
	return &Error{Kind: KindValidation, Title: title, Message: msg}
}

func remoteError(title string, err error) *Error {
	return &Error{Kind: KindRemote, Title: title, Message: err.Error()}
}

func conflictError(meals []common.MealType) *Error {
	names := make([]string, len(meals))
	for i, m := range meals {
		names[i] = string(m)
	}
	return &Error{
		Kind:    KindConflict,
		Title:   TitleAlreadyBooked,
		Message: fmt.Sprintf("You have already booked %s for this date", strings.Join(names, ", ")),
	}
}

// AsError unwraps err into a booking error, if it is one.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
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
