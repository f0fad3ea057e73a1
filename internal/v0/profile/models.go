package profile

import (
	"time"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Profile is the resident's personal record, keyed by user id.
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	RegNumber   string    `json:"regNumber"`
	RoomNumber  string    `json:"roomNumber"`
	PhoneNumber *string   `json:"phoneNumber"`
	Avatar      *string   `json:"avatar"`
	Theme       Theme     `json:"theme"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProfileUpdate lists every field a resident may change. Nil leaves the
// stored value alone.
type ProfileUpdate struct {
	Name        *string `json:"name"`
	RegNumber   *string `json:"regNumber"`
	RoomNumber  *string `json:"roomNumber"`
	PhoneNumber *string `json:"phoneNumber"`
	Avatar      *string `json:"avatar"`
}

func (u ProfileUpdate) empty() bool {
	return u.Name == nil && u.RegNumber == nil && u.RoomNumber == nil && u.PhoneNumber == nil && u.Avatar == nil
}

type ThemeRequest struct {
	Theme Theme `json:"theme" binding:"required"`
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
