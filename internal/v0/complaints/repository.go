package complaints

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

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `c.id, c.user_id, c.subject, c.category, c.description, c.status, c.created_at, c.updated_at`

func scanComplaint(row interface{ Scan(...any) error }, extra ...any) (*Complaint, error) {
	var c Complaint
	dest := append([]any{&c.ID, &c.OwnerID, &c.Subject, &c.Category, &c.Description, &c.Status, &c.CreatedAt, &c.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns the complaints owner filed, newest first.
func (r *Repository) ListByOwner(ctx context.Context, owner string) ([]Complaint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+columns+` FROM complaints c
		WHERE c.user_id = ?
		ORDER BY c.created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ListAll returns every complaint with its reporter, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Reported, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+columns+`, COALESCE(NULLIF(p.name, ''), u.display_name, ''), COALESCE(p.room_number, '')
		FROM complaints c
		LEFT JOIN users u ON u.id = c.user_id
		LEFT JOIN profiles p ON p.id = c.user_id
		ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Reported{}
	for rows.Next() {
		var rep Reported
		c, err := scanComplaint(rows, &rep.ReporterName, &rep.RoomNumber)
		if err != nil {
			return nil, err
		}
		rep.Complaint = *c
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (*Complaint, error) {
	c, err := scanComplaint(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM complaints c WHERE c.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *Repository) Create(ctx context.Context, c Complaint) (*Complaint, error) {
	now := time.Now()
	c.ID = uuid.New().String()
	c.CreatedAt, c.UpdatedAt = now, now
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO complaints (id, user_id, subject, category, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Subject, c.Category, c.Description, c.Status, now, now); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) SetStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE complaints SET status = ?, updated_at = ? WHERE id = ?", status, time.Now(), id)
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
