package announcements

import (
	"time"
)

const TableName = "announcements"

type Type string

const (
	TypeGeneral Type = "general"
	TypeMenu    Type = "menu"
	TypeTiming  Type = "timing"
	TypeEvent   Type = "event"
)

func (t Type) Valid() bool {
	switch t {
	case TypeGeneral, TypeMenu, TypeTiming, TypeEvent:
		return true
	}
	return false
}

type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityImportant Priority = "important"
	PriorityUrgent    Priority = "urgent"
)

func (p Priority) Valid() bool {
	return p == PriorityNormal || p == PriorityImportant || p == PriorityUrgent
}

// rank orders priorities for display, urgent first.
func (p Priority) rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityImportant:
		return 1
	}
	return 2
}

type Status string

const (
	StatusActive    Status = "active"
	StatusScheduled Status = "scheduled"
	StatusExpired   Status = "expired"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusScheduled || s == StatusExpired
}

type Announcement struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Type      Type       `json:"type"`
	Priority  Priority   `json:"priority"`
	Status    Status     `json:"status"`
	IsActive  bool       `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt"`
	CreatedBy *string    `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Visible reports whether residents should see a at now.
func (a Announcement) Visible(now time.Time) bool {
	if !a.IsActive || a.Status != StatusActive {
		return false
	}
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}

type CreateRequest struct {
	Title     string     `json:"title" binding:"required"`
	Content   string     `json:"content" binding:"required"`
	Type      Type       `json:"type"`
	Priority  Priority   `json:"priority"`
	Status    Status     `json:"status"`
	IsActive  *bool      `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// Update lists every field an update may change. ClearExpiry removes the
// expiry, since a nil ExpiresAt means "leave as is".
type Update struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Type        *Type      `json:"type"`
	Priority    *Priority  `json:"priority"`
	Status      *Status    `json:"status"`
	IsActive    *bool      `json:"isActive"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	ClearExpiry bool       `json:"clearExpiry"`
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
