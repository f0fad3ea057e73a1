package booking

import (
	"fmt"
	"time"

	"MessAPI/internal/v0/common"
)

// MealPreferenceCount splits one meal type by preference.
type MealPreferenceCount struct {
	MealType common.MealType `json:"mealType"`
	Veg      int             `json:"veg"`
	NonVeg   int             `json:"nonVeg"`
}

// MonthlyStats summarises one owner's bookings for a calendar month.
type MonthlyStats struct {
	Month               string                        `json:"month"`
	From                string                        `json:"from"`
	To                  string                        `json:"to"`
	Total               int                           `json:"total"`
	ByMealType          map[common.MealType]int       `json:"byMealType"`
	ByPreference        map[common.MealPreference]int `json:"byPreference"`
	ByMealAndPreference []MealPreferenceCount         `json:"byMealAndPreference"`
}

// MonthRange returns the first and last ISO day of month ("YYYY-MM").
func MonthRange(month string) (string, string, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	end := start.AddDate(0, 1, -1)
	return common.FormatDay(start), common.FormatDay(end), nil
}

// ComputeStats counts rows per meal type and preference. Anything that is not
// non-veg counts as veg.
func ComputeStats(month string, rows []Reservation) MonthlyStats {
	s := MonthlyStats{
		Month:        month,
		Total:        len(rows),
		ByMealType:   make(map[common.MealType]int, len(common.MealTypes)),
		ByPreference: map[common.MealPreference]int{common.Veg: 0, common.NonVeg: 0},
	}
	s.From, s.To, _ = MonthRange(month)

	split := make(map[common.MealType]*MealPreferenceCount, len(common.MealTypes))
	for _, m := range common.MealTypes {
		s.ByMealType[m] = 0
		s.ByMealAndPreference = append(s.ByMealAndPreference, MealPreferenceCount{MealType: m})
	}
	for i := range s.ByMealAndPreference {
		split[s.ByMealAndPreference[i].MealType] = &s.ByMealAndPreference[i]
	}

	for _, r := range rows {
		pref := common.Veg
		if r.Preference == common.NonVeg {
			pref = common.NonVeg
		}
		s.ByPreference[pref]++

		c, ok := split[r.MealType]
		if !ok {
			continue
		}
		s.ByMealType[r.MealType]++
		if pref == common.NonVeg {
			c.NonVeg++
		} else {
			c.Veg++
		}
	}
	return s
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
