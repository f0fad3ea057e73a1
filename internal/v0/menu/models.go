package menu

import (
	"time"

	"MessAPI/internal/v0/common"
)

const (
	DailyTable     = "daily_menus"
	ScheduledTable = "scheduled_menus"
	ItemsTable     = "menu_items"
)

// DayMenu is one column of the weekly grid.
type DayMenu struct {
	Day       string `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Snacks    string `json:"snacks"`
	Dinner    string `json:"dinner"`
}

func (d DayMenu) Get(meal common.MealType) string {
	switch meal {
	case common.Breakfast:
		return d.Breakfast
	case common.Lunch:
		return d.Lunch
	case common.Snacks:
		return d.Snacks
	case common.Dinner:
		return d.Dinner
	}
	return ""
}

func (d *DayMenu) set(meal common.MealType, text string) {
	switch meal {
	case common.Breakfast:
		d.Breakfast = text
	case common.Lunch:
		d.Lunch = text
	case common.Snacks:
		d.Snacks = text
	case common.Dinner:
		d.Dinner = text
	}
}

// Week is the resolved menu grid, monday first.
type Week struct {
	Date  string    `json:"date"`
	Today string    `json:"today"`
	Days  []DayMenu `json:"days"`
}

// Day returns the column for a weekday key.
func (w Week) Day(key string) DayMenu {
	for _, d := range w.Days {
		if d.Day == key {
			return d
		}
	}
	return DayMenu{Day: key}
}

// DailyMenu overrides today's column. Nil or blank fields are ignored.
type DailyMenu struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Breakfast *string   `json:"breakfast"`
	Lunch     *string   `json:"lunch"`
	Snacks    *string   `json:"snacks"`
	Dinner    *string   `json:"dinner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d DailyMenu) Get(meal common.MealType) *string {
	switch meal {
	case common.Breakfast:
		return d.Breakfast
	case common.Lunch:
		return d.Lunch
	case common.Snacks:
		return d.Snacks
	case common.Dinner:
		return d.Dinner
	}
	return nil
}

// ScheduledMenu replaces one meal on the weekday of Date once published.
type ScheduledMenu struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	MealType  common.MealType `json:"mealType"`
	Items     []string        `json:"items"`
	Published bool            `json:"published"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// MenuItem is a dish the mess office can put on a menu.
type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
	Vegetarian  bool      `json:"vegetarian"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Requests

type DailyMenuRequest struct {
	Date      string  `json:"date"`
	Breakfast *string `json:"breakfast"`
	Lunch     *string `json:"lunch"`
	Snacks    *string `json:"snacks"`
	Dinner    *string `json:"dinner"`
}

type ScheduledMenuRequest struct {
	Date      string   `json:"date" binding:"required"`
	MealType  string   `json:"mealType" binding:"required"`
	Items     []string `json:"items" binding:"required,min=1"`
	Published bool     `json:"published"`
}

// ScheduledMenuUpdate lists every field an update may change.
type ScheduledMenuUpdate struct {
	Date      *string   `json:"date"`
	MealType  *string   `json:"mealType"`
	Items     *[]string `json:"items"`
	Published *bool     `json:"published"`
}

type MenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Description *string `json:"description"`
	Vegetarian  *bool   `json:"vegetarian"`
}

// MenuItemUpdate lists every field an update may change.
type MenuItemUpdate struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Vegetarian  *bool   `json:"vegetarian"`
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
