package auth

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "mess_session"

	// DefaultSessionDuration is the default session lifetime
	DefaultSessionDuration = 7 * 24 * time.Hour // 7 days
)

// SessionStore manages server-side sessions
type SessionStore struct {
	repo            *Repository
	sessionDuration time.Duration
	secureCookie    bool
	onSignOut       []func(userID string)
}

// NewSessionStore creates a new session store
func NewSessionStore(repo *Repository, sessionDuration time.Duration, secureCookie bool) *SessionStore {
	if sessionDuration == 0 {
		sessionDuration = DefaultSessionDuration
	}
	return &SessionStore{
		repo:            repo,
		sessionDuration: sessionDuration,
		secureCookie:    secureCookie,
	}
}

// CreateSession issues a new token for a user
func (s *SessionStore) CreateSession(ctx context.Context, userID string) (*IssuedSession, error) {
	rawToken, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	expiresAt := now.Add(s.sessionDuration)

	if _, err := s.repo.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)
	`, tokenHash, userID, expiresAt, now); err != nil {
		return nil, err
	}

	return &IssuedSession{
		Session: Session{
			ID:        tokenHash,
			UserID:    userID,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		},
		Token: rawToken,
	}, nil
}

// GetSession returns the live session for a raw token, nil when unknown or expired
func (s *SessionStore) GetSession(ctx context.Context, rawToken string) (*Session, error) {
	tokenHash, err := parseToken(rawToken)
	if err != nil {
		return nil, nil
	}

	var session Session
	err = s.repo.db.QueryRowContext(ctx, `
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = ? AND expires_at > ?
	`, tokenHash, time.Now()).Scan(&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetUserFromSession returns the user associated with a raw token
func (s *SessionStore) GetUserFromSession(ctx context.Context, rawToken string) (*User, error) {
	session, err := s.GetSession(ctx, rawToken)
	if err != nil || session == nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, session.UserID)
}

// OnSignOut registers fn to run with the user id whenever a user's session
// is deleted. Register before serving requests.
func (s *SessionStore) OnSignOut(fn func(userID string)) {
	s.onSignOut = append(s.onSignOut, fn)
}

func (s *SessionStore) signedOut(userID string) {
	for _, fn := range s.onSignOut {
		fn(userID)
	}
}

// DeleteSession signs a token out
func (s *SessionStore) DeleteSession(ctx context.Context, rawToken string) error {
	tokenHash := hashToken(rawToken)

	var userID string
	err := s.repo.db.QueryRowContext(ctx, "SELECT user_id FROM sessions WHERE id = ?", tokenHash).Scan(&userID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := s.repo.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", tokenHash); err != nil {
		return err
	}
	s.signedOut(userID)
	return nil
}

// DeleteUserSessions removes all sessions for a user
func (s *SessionStore) DeleteUserSessions(ctx context.Context, userID string) error {
	if _, err := s.repo.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return err
	}
	s.signedOut(userID)
	return nil
}

// CleanupExpiredSessions removes all expired sessions
func (s *SessionStore) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.repo.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ExtendSession slides the expiry of a live session forward
func (s *SessionStore) ExtendSession(ctx context.Context, rawToken string) (time.Time, error) {
	expiresAt := time.Now().Add(s.sessionDuration)
	_, err := s.repo.db.ExecContext(ctx, `
		UPDATE sessions SET expires_at = ? WHERE id = ? AND expires_at > ?
	`, expiresAt, hashToken(rawToken), time.Now())
	return expiresAt, err
}

// SetSessionCookie sets the session cookie on the response
func (s *SessionStore) SetSessionCookie(c *gin.Context, rawToken string) {
	maxAge := int(s.sessionDuration.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		rawToken,
		maxAge,
		"/",
		"",
		s.secureCookie,
		true, // httpOnly
	)
}

// ClearSessionCookie removes the session cookie
func (s *SessionStore) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		"",
		s.secureCookie,
		true,
	)
}

// TokenFromRequest reads the bearer header first, then the cookie
func (s *SessionStore) TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader(HeaderAuthorization); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
	}
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}
