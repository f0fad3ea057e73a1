package booking

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"MessAPI/internal/v0/common"
)

// Store is the reservation table as the booking views see it.
type Store interface {
	ListByOwner(ctx context.Context, ownerID string, f ListFilter) ([]Reservation, error)
	InsertBatch(ctx context.Context, rows []Reservation) error
}

type Repository struct {
	db            *sql.DB
	enforceUnique bool
}

// NewRepository creates a new booking repository. With enforceUnique the
// batch insert refuses a second reservation for the same owner, day and meal.
func NewRepository(db *sql.DB, enforceUnique bool) *Repository {
	return &Repository{db: db, enforceUnique: enforceUnique}
}

const reservationColumns = `id, user_id, booking_date, meal_type, time_slot, meal_preference, note, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (Reservation, error) {
	var r Reservation
	var note sql.NullString
	err := row.Scan(&r.ID, &r.OwnerID, &r.Date, &r.MealType, &r.TimeSlot, &r.Preference, &note, &r.CreatedAt, &r.UpdatedAt)
	if note.Valid {
		r.Note = &note.String
	}
	return r, err
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ListByOwner returns the owner's reservations, newest day first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string, f ListFilter) ([]Reservation, error) {
	where := []string{"user_id = ?"}
	args := []any{ownerID}
	if f.Date != "" {
		where = append(where, "booking_date = ?")
		args = append(args, f.Date)
	}
	if f.From != "" {
		where = append(where, "booking_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "booking_date <= ?")
		args = append(args, f.To)
	}

	q := fmt.Sprintf(`SELECT %s FROM meal_bookings WHERE %s ORDER BY booking_date DESC, created_at DESC`,
		reservationColumns, strings.Join(where, " AND "))
	return r.query(ctx, q, args...)
}

// ListRange returns every reservation between from and to inclusive.
func (r *Repository) ListRange(ctx context.Context, from, to string) ([]Reservation, error) {
	return r.query(ctx, `SELECT `+reservationColumns+` FROM meal_bookings
		WHERE booking_date >= ? AND booking_date <= ?
		ORDER BY booking_date, meal_type, time_slot, created_at`, from, to)
}

// InsertBatch writes rows in one transaction. Either all rows land or none.
func (r *Repository) InsertBatch(ctx context.Context, rows []Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// Defer a rollback in case anything fails.
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO meal_bookings (`+reservationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if r.enforceUnique {
			var n int
			err := tx.QueryRowContext(ctx, `
				SELECT COUNT(*) FROM meal_bookings
				WHERE user_id = ? AND booking_date = ? AND meal_type = ?`,
				row.OwnerID, row.Date, row.MealType).Scan(&n)
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrDuplicateBooking
			}
		}
		if _, err := stmt.ExecContext(ctx, row.ID, row.OwnerID, row.Date, row.MealType, row.TimeSlot,
			row.Preference, row.Note, row.CreatedAt, row.UpdatedAt); err != nil {
			return fmt.Errorf("insert %s booking: %w", row.MealType, err)
		}
	}

	return tx.Commit()
}

// Headcount counts diners per meal, slot and preference for one day.
func (r *Repository) Headcount(ctx context.Context, date string) ([]HeadcountRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT booking_date, meal_type, time_slot, meal_preference, COUNT(*)
		FROM meal_bookings
		WHERE booking_date = ?
		GROUP BY booking_date, meal_type, time_slot, meal_preference`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []HeadcountRow{}
	for rows.Next() {
		var h HeadcountRow
		if err := rows.Scan(&h.Date, &h.MealType, &h.TimeSlot, &h.Preference, &h.Count); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortHeadcount(out)
	return out, nil
}

// sortHeadcount orders rows by serving order, then slot, then preference.
func sortHeadcount(rows []HeadcountRow) {
	slotIndex := func(h HeadcountRow) int {
		for i, s := range catalog[h.MealType] {
			if s.Label == h.TimeSlot {
				return i
			}
		}
		return len(catalog[h.MealType])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.MealType.Order() != b.MealType.Order() {
			return a.MealType.Order() < b.MealType.Order()
		}
		if slotIndex(a) != slotIndex(b) {
			return slotIndex(a) < slotIndex(b)
		}
		return a.Preference == common.Veg && b.Preference != common.Veg
	})
}

// OwnerNames maps the owners of rows to their display names.
func (r *Repository) OwnerNames(ctx context.Context, rows []Reservation) (map[string]string, error) {
	names := make(map[string]string)
	for _, row := range rows {
		if _, seen := names[row.OwnerID]; seen {
			continue
		}
		var name string
		err := r.db.QueryRowContext(ctx, `
			SELECT COALESCE(NULLIF(p.name, ''), u.display_name)
			FROM users u LEFT JOIN profiles p ON p.id = u.id
			WHERE u.id = ?`, row.OwnerID).Scan(&name)
		if err == sql.ErrNoRows {
			names[row.OwnerID] = ""
			continue
		}
		if err != nil {
			return nil, err
		}
		names[row.OwnerID] = name
	}
	return names, nil
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
