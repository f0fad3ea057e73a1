package announcements

import (
	"context"
	"database/sql"
	"time"

	"MessAPI/internal/v0/common"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

// NewRepository creates a new announcement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `id, title, content, type, priority, status, is_active, expires_at, created_by, created_at, updated_at`

func scan(row interface{ Scan(...any) error }) (*Announcement, error) {
	var a Announcement
	var expires sql.NullTime
	var createdBy sql.NullString
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Type, &a.Priority, &a.Status, &a.IsActive,
		&expires, &createdBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if expires.Valid {
		a.ExpiresAt = &expires.Time
	}
	if createdBy.Valid {
		a.CreatedBy = &createdBy.String
	}
	return &a, nil
}

// List returns every announcement, newest first.
func (r *Repository) List(ctx context.Context) ([]Announcement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM announcements ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Announcement{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (*Announcement, error) {
	a, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM announcements WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *Repository) Create(ctx context.Context, a Announcement) (*Announcement, error) {
	now := time.Now()
	a.ID = uuid.New().String()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO announcements (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Content, a.Type, a.Priority, a.Status, a.IsActive, a.ExpiresAt, a.CreatedBy, now, now); err != nil {
		return nil, err
	}
	return r.Get(ctx, a.ID)
}

// Save writes every editable field of a.
func (r *Repository) Save(ctx context.Context, a Announcement) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE announcements
		SET title = ?, content = ?, type = ?, priority = ?, status = ?, is_active = ?, expires_at = ?, updated_at = ?
		WHERE id = ?`,
		a.Title, a.Content, a.Type, a.Priority, a.Status, a.IsActive, a.ExpiresAt, time.Now(), a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
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
