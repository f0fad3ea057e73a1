package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"
)

const (
	// OAuthStateExpiry is how long an OAuth state is valid
	OAuthStateExpiry = 10 * time.Minute
)

// OAuthStateStore keeps single-use CSRF states for the OAuth round trip
type OAuthStateStore struct {
	repo *Repository
}

func NewOAuthStateStore(repo *Repository) *OAuthStateStore {
	return &OAuthStateStore{repo: repo}
}

// CreateState stores and returns a fresh URL-safe state
func (s *OAuthStateStore) CreateState(ctx context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(buf)

	if _, err := s.repo.db.ExecContext(ctx,
		`INSERT INTO oauth_states (state, expires_at) VALUES (?, ?)`,
		state, time.Now().Add(OAuthStateExpiry),
	); err != nil {
		return "", err
	}
	return state, nil
}

// ConsumeState reports whether state was live, deleting it either way.
func (s *OAuthStateStore) ConsumeState(ctx context.Context, state string) (bool, error) {
	result, err := s.repo.db.ExecContext(ctx,
		`DELETE FROM oauth_states WHERE state = ? AND expires_at > ?`, state, time.Now())
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CleanupExpiredStates removes all expired state tokens
func (s *OAuthStateStore) CleanupExpiredStates(ctx context.Context) (int64, error) {
	result, err := s.repo.db.ExecContext(ctx, `DELETE FROM oauth_states WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
