package profile

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"MessAPI/internal/v0/common"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the profile of the user with id, or nil when there is none.
func (r *Repository) Get(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	var phone, avatar sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, u.email, p.name, p.reg_number, p.room_number, p.phone_number, p.avatar, p.theme, p.created_at, p.updated_at
		FROM profiles p
		JOIN users u ON u.id = p.id
		WHERE p.id = ?`, id).Scan(
		&p.ID, &p.Email, &p.Name, &p.RegNumber, &p.RoomNumber, &phone, &avatar, &p.Theme, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		p.PhoneNumber = &phone.String
	}
	if avatar.Valid {
		p.Avatar = &avatar.String
	}
	return &p, nil
}

// Update writes only the fields set in u.
func (r *Repository) Update(ctx context.Context, id string, u ProfileUpdate) error {
	var sets []string
	var args []any
	add := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	add("name", u.Name)
	add("reg_number", u.RegNumber)
	add("room_number", u.RoomNumber)
	add("phone_number", u.PhoneNumber)
	add("avatar", u.Avatar)

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now(), id)

	res, err := r.db.ExecContext(ctx, "UPDATE profiles SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *Repository) GetTheme(ctx context.Context, id string) (Theme, error) {
	var theme Theme
	err := r.db.QueryRowContext(ctx, "SELECT theme FROM profiles WHERE id = ?", id).Scan(&theme)
	if err == sql.ErrNoRows {
		return "", common.ErrNotFound
	}
	return theme, err
}

func (r *Repository) SetTheme(ctx context.Context, id string, theme Theme) error {
	res, err := r.db.ExecContext(ctx, "UPDATE profiles SET theme = ?, updated_at = ? WHERE id = ?", theme, time.Now(), id)
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
