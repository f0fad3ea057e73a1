package booking

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// sheetWriter appends rows to the sheets of one workbook.
type sheetWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

func newSheetWriter() *sheetWriter {
	return &sheetWriter{file: excelize.NewFile()}
}

func (w *sheetWriter) addSheet(name string) error {
	if len(name) > 31 {
		name = name[:31]
	}
	if w.currentSheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *sheetWriter) writeHeader(columns ...string) error {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	if err := w.writeRow(row...); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil
	}
	start, _ := excelize.CoordinatesToCellName(1, w.currentRow-1)
	end, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow-1)
	_ = w.file.SetCellStyle(w.currentSheet, start, end, style)
	return nil
}

func (w *sheetWriter) writeRow(values ...any) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}
	cell, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.currentSheet, cell, &values); err != nil {
		return err
	}
	w.currentRow++
	return nil
}

// WriteWorkbook writes a Bookings sheet and a Headcount sheet to out.
// names maps owner ids to display names; unknown owners show their id.
func WriteWorkbook(out io.Writer, rows []Reservation, counts []HeadcountRow, names map[string]string) error {
	w := newSheetWriter()
	defer w.file.Close()

	if err := w.addSheet("Bookings"); err != nil {
		return err
	}
	if err := w.writeHeader("Date", "Resident", "Meal", "Time Slot", "Preference", "Note", "Booked At"); err != nil {
		return err
	}
	for _, r := range rows {
		resident := r.OwnerID
		if n, ok := names[r.OwnerID]; ok && n != "" {
			resident = n
		}
		note := ""
		if r.Note != nil {
			note = *r.Note
		}
		if err := w.writeRow(r.Date, resident, string(r.MealType), r.TimeSlot, string(r.Preference), note,
			r.CreatedAt.Format("2006-01-02 15:04")); err != nil {
			return err
		}
	}

	if err := w.addSheet("Headcount"); err != nil {
		return err
	}
	if err := w.writeHeader("Date", "Meal", "Time Slot", "Preference", "Count"); err != nil {
		return err
	}
	for _, h := range counts {
		if err := w.writeRow(h.Date, string(h.MealType), h.TimeSlot, string(h.Preference), h.Count); err != nil {
			return err
		}
	}

	return w.file.Write(out)
}

// Headcounts aggregates rows the same way Repository.Headcount does, for
// ranges spanning several days.
func Headcounts(rows []Reservation) []HeadcountRow {
	type key struct {
		date, meal, slot, pref string
	}
	idx := make(map[key]int)
	out := []HeadcountRow{}
	for _, r := range rows {
		k := key{r.Date, string(r.MealType), r.TimeSlot, string(r.Preference)}
		if i, ok := idx[k]; ok {
			out[i].Count++
			continue
		}
		idx[k] = len(out)
		out = append(out, HeadcountRow{Date: r.Date, MealType: r.MealType, TimeSlot: r.TimeSlot, Preference: r.Preference, Count: 1})
	}
	sortHeadcount(out)
	return out
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
