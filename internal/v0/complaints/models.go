package complaints

import (
	"time"
)

const TableName = "complaints"

type Category string

const (
	CategoryFoodQuality Category = "food-quality"
	CategoryService     Category = "service"
	CategoryCleanliness Category = "cleanliness"
	CategoryTiming      Category = "timing"
	CategoryFacilities  Category = "facilities"
	CategoryOther       Category = "other"
)

var Categories = []Category{
	CategoryFoodQuality, CategoryService, CategoryCleanliness,
	CategoryTiming, CategoryFacilities, CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusResolved
}

type Complaint struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"userId"`
	Subject     string    `json:"subject"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Reported is a complaint joined with the reporter, as the office sees it.
type Reported struct {
	Complaint
	ReporterName string `json:"reporterName"`
	RoomNumber   string `json:"roomNumber"`
}

type CreateRequest struct {
	Subject     string   `json:"subject" binding:"required"`
	Category    Category `json:"category" binding:"required"`
	Description string   `json:"description" binding:"required"`
}

type StatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// Counts summarises complaints by status for the dashboard.
type Counts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
}

func CountByStatus(items []Complaint) Counts {
	c := Counts{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case StatusPending:
			c.Pending++
		case StatusInProgress:
			c.InProgress++
		case StatusResolved:
			c.Resolved++
		}
	}
	return c
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
