package feedback

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `f.id, f.user_id, f.meal_type, f.rating, f.comment, f.created_at`

func scanFeedback(row interface{ Scan(...any) error }, extra ...any) (*Feedback, error) {
	var f Feedback
	dest := append([]any{&f.ID, &f.OwnerID, &f.MealType, &f.Rating, &f.Comment, &f.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	f.Responses = []Response{}
	return &f, nil
}

func (r *Repository) Create(ctx context.Context, f Feedback) (*Feedback, error) {
	f.ID = uuid.New().String()
	f.CreatedAt = time.Now()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO feedbacks (id, user_id, meal_type, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.OwnerID, f.MealType, f.Rating, f.Comment, f.CreatedAt); err != nil {
		return nil, err
	}
	f.Responses = []Response{}
	return &f, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Feedback, error) {
	f, err := scanFeedback(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM feedbacks f WHERE f.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachResponses(ctx, []*Feedback{f}); err != nil {
		return nil, err
	}
	return f, nil
}

// ListByOwner returns owner's feedback with responses, newest first.
func (r *Repository) ListByOwner(ctx context.Context, owner string) ([]Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+columns+` FROM feedbacks f
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	ptrs := make([]*Feedback, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := r.attachResponses(ctx, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every feedback with its author and responses.
func (r *Repository) ListAll(ctx context.Context) ([]Reviewed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+columns+`, COALESCE(NULLIF(p.name, ''), u.display_name, ''), COALESCE(p.room_number, '')
		FROM feedbacks f
		LEFT JOIN users u ON u.id = f.user_id
		LEFT JOIN profiles p ON p.id = f.user_id
		ORDER BY f.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Reviewed{}
	for rows.Next() {
		var rev Reviewed
		f, err := scanFeedback(rows, &rev.ReporterName, &rev.RoomNumber)
		if err != nil {
			return nil, err
		}
		rev.Feedback = *f
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	ptrs := make([]*Feedback, len(out))
	for i := range out {
		ptrs[i] = &out[i].Feedback
	}
	if err := r.attachResponses(ctx, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}

// attachResponses loads the responses of every listed feedback in one query.
func (r *Repository) attachResponses(ctx context.Context, items []*Feedback) error {
	if len(items) == 0 {
		return nil
	}
	byID := make(map[string]*Feedback, len(items))
	args := make([]any, 0, len(items))
	for _, f := range items {
		byID[f.ID] = f
		args = append(args, f.ID)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, feedback_id, admin_id, response, created_at FROM admin_responses
		WHERE feedback_id IN (?`+strings.Repeat(", ?", len(args)-1)+`)
		ORDER BY created_at ASC`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var resp Response
		if err := rows.Scan(&resp.ID, &resp.FeedbackID, &resp.AdminID, &resp.Response, &resp.CreatedAt); err != nil {
			return err
		}
		if f, ok := byID[resp.FeedbackID]; ok {
			f.Responses = append(f.Responses, resp)
		}
	}
	return rows.Err()
}

func (r *Repository) CreateResponse(ctx context.Context, resp Response) (*Response, error) {
	resp.ID = uuid.New().String()
	resp.CreatedAt = time.Now()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_responses (id, feedback_id, admin_id, response, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		resp.ID, resp.FeedbackID, resp.AdminID, resp.Response, resp.CreatedAt); err != nil {
		return nil, err
	}
	return &resp, nil
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
