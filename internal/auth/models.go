package auth

import (
	"database/sql"
	"time"
)

// Role represents user permission levels
type Role string

const (
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleResident || r == RoleAdmin
}

// Status represents user account status
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusSuspended
}

// Provider represents OAuth providers
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

// User is a mess account. ID is the owner reference stored on every
// resident-owned row.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// OAuthIdentity links a user to an OAuth provider
type OAuthIdentity struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	Provider   Provider  `json:"provider"`
	ProviderID string    `json:"providerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Session is a server-side login. ID holds the token hash, never the token.
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// IssuedSession is returned once at sign-in and carries the raw token.
type IssuedSession struct {
	Session
	Token string `json:"token"`
}

// NewUser enumerates every field accepted when an account is created.
type NewUser struct {
	Email        string
	DisplayName  string
	PasswordHash *string
	Role         Role
	RegNumber    string
	RoomNumber   string
	PhoneNumber  *string
}

// SignUpRequest represents the request body for password registration
type SignUpRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	Name        string  `json:"name" binding:"required"`
	RegNumber   string  `json:"regNumber" binding:"required"`
	RoomNumber  string  `json:"roomNumber" binding:"required"`
	PhoneNumber *string `json:"phoneNumber"`
}

// SignInRequest represents the request body for password login
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserUpdateRequest represents the request body for updating a user
type UserUpdateRequest struct {
	Role   *Role   `json:"role"`
	Status *Status `json:"status"`
}

// ScanNullableString helper for scanning nullable string
func ScanNullableString(n sql.NullString) *string {
	if n.Valid {
		return &n.String
	}
	return nil
}

// ScanNullableTime helper for scanning nullable time
func ScanNullableTime(n sql.NullTime) *time.Time {
	if n.Valid {
		return &n.Time
	}
	return nil
}
