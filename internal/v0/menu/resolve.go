package menu

import (
	"sort"
	"strings"
	"time"

	"MessAPI/internal/v0/common"
)

// Resolve builds the week shown on today.
//
// Cells start from the standing menu. Each published scheduled menu dated
// today or later replaces the cell for its weekday and meal; when several
// land on one cell the nearest date wins. Finally the daily menu for today's
// date replaces today's non-blank meals.
//
// Unpublished scheduled menus are drafts and never reach the week.
func Resolve(today time.Time, scheduled []ScheduledMenu, daily *DailyMenu) Week {
	todayDate := common.FormatDay(today)
	week := Week{
		Date:  todayDate,
		Today: common.WeekdayKey(today),
		Days:  make([]DayMenu, len(common.WeekdayKeys)),
	}
	col := make(map[string]int, len(common.WeekdayKeys))
	for i, key := range common.WeekdayKeys {
		week.Days[i] = Fallback(key)
		col[key] = i
	}

	upcoming := make([]ScheduledMenu, 0, len(scheduled))
	for _, s := range scheduled {
		if s.Published && s.Date >= todayDate {
			upcoming = append(upcoming, s)
		}
	}
	// Farthest first so nearer dates overwrite them.
	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].Date != upcoming[j].Date {
			return upcoming[i].Date > upcoming[j].Date
		}
		return upcoming[i].UpdatedAt.Before(upcoming[j].UpdatedAt)
	})
	for _, s := range upcoming {
		date, err := common.ParseDay(s.Date, today.Location())
		if err != nil {
			continue
		}
		text := joinItems(s.Items)
		if text == "" {
			continue
		}
		week.Days[col[common.WeekdayKey(date)]].set(s.MealType, text)
	}

	if daily != nil && daily.Date == todayDate {
		d := &week.Days[col[week.Today]]
		for _, m := range common.MealTypes {
			if v := daily.Get(m); v != nil && strings.TrimSpace(*v) != "" {
				d.set(m, *v)
			}
		}
	}
	return week
}

func joinItems(items []string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return strings.Join(out, ", ")
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
