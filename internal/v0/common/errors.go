package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by repositories when an update or delete
	// matches no row. Lookups return (nil, nil) instead.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks request values that failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// Invalid wraps err as an ErrInvalidInput.
func Invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// ErrorStatus maps the package sentinels onto HTTP statuses.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
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
