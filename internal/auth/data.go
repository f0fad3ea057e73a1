package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmailTaken is returned when an account already uses the email.
var ErrEmailTaken = errors.New("email already registered")

// Repository provides access to auth-related database operations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// --- User Operations ---

const userColumns = `id, email, display_name, role, status, created_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.Status, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts the account and its profile row in one transaction.
func (r *Repository) CreateUser(ctx context.Context, nu NewUser) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	existing, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	role := nu.Role
	if role == "" {
		role = RoleResident
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	id := uuid.New().String()
	now := time.Now()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, role, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, email, nu.PasswordHash, nu.DisplayName, role, StatusActive, now); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (id, name, reg_number, room_number, phone_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, nu.DisplayName, nu.RegNumber, nu.RoomNumber, nu.PhoneNumber, now, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetUserByID(ctx, id)
}

// GetUserByID returns a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// GetUserByEmail returns a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email))))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// GetPasswordHash returns the stored bcrypt hash, nil for OAuth-only accounts.
func (r *Repository) GetPasswordHash(ctx context.Context, userID string) (*string, error) {
	var hash sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id = ?`, userID).Scan(&hash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ScanNullableString(hash), nil
}

// ListUsers returns all users, newest first
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser updates role and status when set
func (r *Repository) UpdateUser(ctx context.Context, id string, role *Role, status *Status) error {
	if role != nil {
		if _, err := r.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", *role, id); err != nil {
			return err
		}
	}
	if status != nil {
		if _, err := r.db.ExecContext(ctx, "UPDATE users SET status = ? WHERE id = ?", *status, id); err != nil {
			return err
		}
	}
	return nil
}

// --- OAuth Identity Operations ---

// GetOAuthIdentity returns an OAuth identity by provider and provider ID
func (r *Repository) GetOAuthIdentity(ctx context.Context, provider Provider, providerID string) (*OAuthIdentity, error) {
	var oi OAuthIdentity
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, provider, provider_id, created_at
		FROM oauth_identities WHERE provider = ? AND provider_id = ?
	`, provider, providerID).Scan(&oi.ID, &oi.UserID, &oi.Provider, &oi.ProviderID, &oi.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &oi, nil
}

// CreateOAuthIdentity links a provider account to a user
func (r *Repository) CreateOAuthIdentity(ctx context.Context, userID string, provider Provider, providerID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO oauth_identities (user_id, provider, provider_id) VALUES (?, ?, ?)
	`, userID, provider, providerID)
	return err
}
