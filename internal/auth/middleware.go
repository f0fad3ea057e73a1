package auth

import (
	"fmt"
	"net/http"

	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
)

const (
	// Context keys
	ContextKeyUser  = "auth_user"
	ContextKeyToken = "auth_token"

	// Headers
	HeaderAuthorization = "Authorization"
	HeaderRetryAfter    = "Retry-After"
)

// Middleware provides authentication and authorization middleware
type Middleware struct {
	sessionStore *SessionStore
	limiter      *RateLimiter
}

// NewMiddleware creates a new middleware instance. limiter may be nil.
func NewMiddleware(sessionStore *SessionStore, limiter *RateLimiter) *Middleware {
	return &Middleware{
		sessionStore: sessionStore,
		limiter:      limiter,
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, common.CreateErrorResponse([]string{msg}))
}

// RequireSession rejects requests without a live session token
func (m *Middleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.sessionStore.TokenFromRequest(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		user, err := m.sessionStore.GetUserFromSession(c.Request.Context(), token)
		if err != nil {
			abort(c, http.StatusInternalServerError, "failed to load session")
			return
		}
		if user == nil {
			m.sessionStore.ClearSessionCookie(c)
			abort(c, http.StatusUnauthorized, "session expired or invalid")
			return
		}

		if user.Status != StatusActive {
			m.sessionStore.ClearSessionCookie(c)
			abort(c, http.StatusForbidden, fmt.Sprintf("account is %s", user.Status))
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

// RequireRole returns a middleware that checks if the user has the required role
func (m *Middleware) RequireRole(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUserFromContext(c)
		if user == nil {
			abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		if user.Role != role && user.Role != RoleAdmin {
			abort(c, http.StatusForbidden, fmt.Sprintf("requires %s role", role))
			return
		}

		c.Next()
	}
}

// OptionalSession attempts to load a session but doesn't fail if none exists
func (m *Middleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.sessionStore.TokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := m.sessionStore.GetUserFromSession(c.Request.Context(), token)
		if err == nil && user != nil && user.Status == StatusActive {
			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyToken, token)
		}

		c.Next()
	}
}

// RateLimit throttles per signed-in user, falling back to the client IP
func (m *Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.limiter == nil {
			c.Next()
			return
		}

		key := "ip:" + canonicalIP(c.ClientIP())
		if user := GetUserFromContext(c); user != nil {
			key = "user:" + user.ID
		}

		if !m.limiter.Allow(key) {
			c.Header(HeaderRetryAfter, "1")
			abort(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) *User {
	userVal, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := userVal.(*User)
	if !ok {
		return nil
	}
	return user
}

// GetTokenFromContext retrieves the raw session token from the context
func GetTokenFromContext(c *gin.Context) string {
	return c.GetString(ContextKeyToken)
}
