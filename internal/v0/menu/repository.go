package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"MessAPI/internal/v0/common"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

// NewRepository creates a new menu repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func checkAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Daily menus

func scanDaily(row interface{ Scan(...any) error }) (*DailyMenu, error) {
	var d DailyMenu
	var breakfast, lunch, snacks, dinner sql.NullString
	if err := row.Scan(&d.ID, &d.Date, &breakfast, &lunch, &snacks, &dinner, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Breakfast = nullable(breakfast)
	d.Lunch = nullable(lunch)
	d.Snacks = nullable(snacks)
	d.Dinner = nullable(dinner)
	return &d, nil
}

func nullable(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

// GetDailyMenu returns the override for date, nil when there is none.
func (r *Repository) GetDailyMenu(ctx context.Context, date string) (*DailyMenu, error) {
	d, err := scanDaily(r.db.QueryRowContext(ctx, `
		SELECT id, date, breakfast, lunch, snacks, dinner, created_at, updated_at
		FROM daily_menus WHERE date = ?`, date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

// UpsertDailyMenu creates or replaces the override for req.Date.
func (r *Repository) UpsertDailyMenu(ctx context.Context, req DailyMenuRequest) (*DailyMenu, bool, error) {
	existing, err := r.GetDailyMenu(ctx, req.Date)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	if existing == nil {
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO daily_menus (id, date, breakfast, lunch, snacks, dinner, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), req.Date, req.Breakfast, req.Lunch, req.Snacks, req.Dinner, now, now)
	} else {
		_, err = r.db.ExecContext(ctx, `
			UPDATE daily_menus SET breakfast = ?, lunch = ?, snacks = ?, dinner = ?, updated_at = ?
			WHERE id = ?`,
			req.Breakfast, req.Lunch, req.Snacks, req.Dinner, now, existing.ID)
	}
	if err != nil {
		return nil, false, err
	}

	saved, err := r.GetDailyMenu(ctx, req.Date)
	return saved, existing == nil, err
}

func (r *Repository) DeleteDailyMenu(ctx context.Context, date string) error {
	return checkAffected(r.db.ExecContext(ctx, "DELETE FROM daily_menus WHERE date = ?", date))
}

// Scheduled menus

const scheduledColumns = `id, date, meal_type, items, published, created_at, updated_at`

func scanScheduled(row interface{ Scan(...any) error }) (*ScheduledMenu, error) {
	var s ScheduledMenu
	var items string
	if err := row.Scan(&s.ID, &s.Date, &s.MealType, &items, &s.Published, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &s.Items); err != nil {
		return nil, fmt.Errorf("decode items of scheduled menu %s: %w", s.ID, err)
	}
	if s.Items == nil {
		s.Items = []string{}
	}
	return &s, nil
}

// ScheduledFilter narrows ListScheduled. Zero values mean no bound.
type ScheduledFilter struct {
	From          string
	PublishedOnly bool
}

func (r *Repository) ListScheduled(ctx context.Context, f ScheduledFilter) ([]ScheduledMenu, error) {
	q := `SELECT ` + scheduledColumns + ` FROM scheduled_menus WHERE date >= ?`
	if f.PublishedOnly {
		q += ` AND published = 1`
	}
	q += ` ORDER BY date, meal_type`

	rows, err := r.db.QueryContext(ctx, q, f.From)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ScheduledMenu{}
	for rows.Next() {
		s, err := scanScheduled(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *Repository) GetScheduled(ctx context.Context, id string) (*ScheduledMenu, error) {
	s, err := scanScheduled(r.db.QueryRowContext(ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_menus WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *Repository) CreateScheduled(ctx context.Context, s ScheduledMenu) (*ScheduledMenu, error) {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s.ID = uuid.New().String()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO scheduled_menus (`+scheduledColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Date, s.MealType, string(items), s.Published, now, now); err != nil {
		return nil, err
	}
	return r.GetScheduled(ctx, s.ID)
}

// UpdateScheduled writes every field of s except the timestamps.
func (r *Repository) UpdateScheduled(ctx context.Context, s ScheduledMenu) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return err
	}
	return checkAffected(r.db.ExecContext(ctx, `
		UPDATE scheduled_menus SET date = ?, meal_type = ?, items = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		s.Date, s.MealType, string(items), s.Published, time.Now(), s.ID))
}

func (r *Repository) DeleteScheduled(ctx context.Context, id string) error {
	return checkAffected(r.db.ExecContext(ctx, "DELETE FROM scheduled_menus WHERE id = ?", id))
}

// Menu items

const itemColumns = `id, name, category, description, vegetarian, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*MenuItem, error) {
	var it MenuItem
	var desc sql.NullString
	if err := row.Scan(&it.ID, &it.Name, &it.Category, &desc, &it.Vegetarian, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Description = nullable(desc)
	return &it, nil
}

func (r *Repository) ListItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MenuItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func (r *Repository) GetItem(ctx context.Context, id string) (*MenuItem, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return it, err
}

func (r *Repository) CreateItem(ctx context.Context, it MenuItem) (*MenuItem, error) {
	now := time.Now()
	it.ID = uuid.New().String()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO menu_items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.Name, it.Category, it.Description, it.Vegetarian, now, now); err != nil {
		return nil, err
	}
	return r.GetItem(ctx, it.ID)
}

func (r *Repository) UpdateItem(ctx context.Context, it MenuItem) error {
	return checkAffected(r.db.ExecContext(ctx, `
		UPDATE menu_items SET name = ?, category = ?, description = ?, vegetarian = ?, updated_at = ?
		WHERE id = ?`,
		it.Name, it.Category, it.Description, it.Vegetarian, time.Now(), it.ID))
}

func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	return checkAffected(r.db.ExecContext(ctx, "DELETE FROM menu_items WHERE id = ?", id))
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
