package menu

import (
	"time"

	"MessAPI/internal/v0/common"
)

// NewScheduledMenu validates a create request.
func NewScheduledMenu(req ScheduledMenuRequest, loc *time.Location) (ScheduledMenu, error) {
	m := ScheduledMenu{Published: req.Published}
	err := applyScheduledUpdate(&m, ScheduledMenuUpdate{
		Date:     &req.Date,
		MealType: &req.MealType,
		Items:    &req.Items,
	}, loc)
	return m, err
}

func applyScheduledUpdate(m *ScheduledMenu, u ScheduledMenuUpdate, loc *time.Location) error {
	if u.Date != nil {
		d, err := common.ParseDay(*u.Date, loc)
		if err != nil {
			return common.Invalid(err)
		}
		m.Date = common.FormatDay(d)
	}
	if u.MealType != nil {
		meal, err := common.ParseMealType(*u.MealType)
		if err != nil {
			return common.Invalid(err)
		}
		m.MealType = meal
	}
	if u.Items != nil {
		m.Items = append([]string{}, *u.Items...)
	}
	if u.Published != nil {
		m.Published = *u.Published
	}
	return nil
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
