package auth

import (
	"errors"
	"net/http"

	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	OAuthStateCookieName = "mess_oauth_state"
)

// Handler handles authentication endpoints
type Handler struct {
	repo         *Repository
	oauthConfig  *OAuthConfig
	stateStore   *OAuthStateStore
	sessionStore *SessionStore
	logger       *zerolog.Logger
}

// NewHandler creates a new auth handler
func NewHandler(
	repo *Repository,
	oauthConfig *OAuthConfig,
	stateStore *OAuthStateStore,
	sessionStore *SessionStore,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		repo:         repo,
		oauthConfig:  oauthConfig,
		stateStore:   stateStore,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

func userView(u *User) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"displayName": u.DisplayName,
		"role":        u.Role,
		"status":      u.Status,
		"createdAt":   u.CreatedAt,
	}
}

// startSession issues a token, sets the cookie and writes the response
func (h *Handler) startSession(c *gin.Context, status int, user *User) {
	session, err := h.sessionStore.CreateSession(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID).Msg("create session failed")
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create session"}))
		return
	}
	h.sessionStore.SetSessionCookie(c, session.Token)

	c.JSON(status, common.CreateSuccessResponse(gin.H{
		"user":      userView(user),
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	}))
}

// SignUp registers a resident with email and password
// POST /auth/signup
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	user, err := h.repo.CreateUser(c.Request.Context(), NewUser{
		Email:        req.Email,
		DisplayName:  req.Name,
		PasswordHash: &hash,
		Role:         RoleResident,
		RegNumber:    req.RegNumber,
		RoomNumber:   req.RoomNumber,
		PhoneNumber:  req.PhoneNumber,
	})
	if errors.Is(err, ErrEmailTaken) {
		c.JSON(http.StatusConflict, common.CreateErrorResponse([]string{err.Error()}))
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("sign-up failed")
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create account"}))
		return
	}

	h.startSession(c, http.StatusCreated, user)
}

// SignIn authenticates with email and password
// POST /auth/signin
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	ctx := c.Request.Context()
	user, err := h.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to sign in"}))
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{ErrInvalidCredentials.Error()}))
		return
	}

	hash, err := h.repo.GetPasswordHash(ctx, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to sign in"}))
		return
	}
	if hash == nil || CheckPassword(*hash, req.Password) != nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{ErrInvalidCredentials.Error()}))
		return
	}

	if user.Status != StatusActive {
		c.JSON(http.StatusForbidden, common.CreateErrorResponse([]string{"account is " + string(user.Status)}))
		return
	}

	h.startSession(c, http.StatusOK, user)
}

// Login initiates OAuth flow
// GET /auth/login/:provider
func (h *Handler) Login(c *gin.Context) {
	provider := Provider(c.Param("provider"))
	if !h.oauthConfig.IsProviderConfigured(provider) {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"provider not configured"}))
		return
	}

	state, err := h.stateStore.CreateState(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create auth state"}))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(OAuthStateCookieName, state, int(OAuthStateExpiry.Seconds()), "/", "", h.sessionStore.secureCookie, true)

	authURL, err := h.oauthConfig.AuthURL(provider, state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create auth URL"}))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback handles OAuth callback
// GET /auth/callback/:provider
func (h *Handler) Callback(c *gin.Context) {
	provider := Provider(c.Param("provider"))
	if !h.oauthConfig.IsProviderConfigured(provider) {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"provider not configured"}))
		return
	}

	queryState := c.Query("state")
	cookieState, err := c.Cookie(OAuthStateCookieName)
	if err != nil || cookieState == "" || queryState != cookieState {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"OAuth state mismatch"}))
		return
	}
	c.SetCookie(OAuthStateCookieName, "", -1, "/", "", h.sessionStore.secureCookie, true)

	ctx := c.Request.Context()
	valid, err := h.stateStore.ConsumeState(ctx, queryState)
	if err != nil || !valid {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid or expired OAuth state"}))
		return
	}

	if errMsg := c.Query("error"); errMsg != "" {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"OAuth error: " + errMsg}))
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"missing authorization code"}))
		return
	}

	info, err := h.oauthConfig.Authenticate(ctx, provider, code)
	if err != nil {
		h.logger.Warn().Err(err).Str("provider", string(provider)).Msg("oauth authentication failed")
		c.JSON(http.StatusBadGateway, common.CreateErrorResponse([]string{"failed to authenticate with provider"}))
		return
	}

	user, err := h.findOrCreateUser(c, provider, info)
	if err != nil {
		h.logger.Error().Err(err).Msg("oauth user provisioning failed")
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create user"}))
		return
	}
	if user.Status != StatusActive {
		c.JSON(http.StatusForbidden, common.CreateErrorResponse([]string{"account is " + string(user.Status)}))
		return
	}

	h.startSession(c, http.StatusOK, user)
}

// findOrCreateUser links the provider identity to an account, creating a
// resident with an empty profile on first sign-in.
func (h *Handler) findOrCreateUser(c *gin.Context, provider Provider, info *OAuthUserInfo) (*User, error) {
	ctx := c.Request.Context()

	identity, err := h.repo.GetOAuthIdentity(ctx, provider, info.ProviderID)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		return h.repo.GetUserByID(ctx, identity.UserID)
	}

	user, err := h.repo.GetUserByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = h.repo.CreateUser(ctx, NewUser{
			Email:       info.Email,
			DisplayName: info.DisplayName,
			Role:        RoleResident,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := h.repo.CreateOAuthIdentity(ctx, user.ID, provider, info.ProviderID); err != nil {
		return nil, err
	}
	return user, nil
}

// Me returns the current authenticated user
// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"user": userView(user),
	}))
}

// Refresh slides the session expiry forward
// POST /auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	token := GetTokenFromContext(c)
	expiresAt, err := h.sessionStore.ExtendSession(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to refresh session"}))
		return
	}
	h.sessionStore.SetSessionCookie(c, token)

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"expiresAt": expiresAt,
	}))
}

// Logout logs out the current user
// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if token := GetTokenFromContext(c); token != "" {
		if err := h.sessionStore.DeleteSession(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to sign out"}))
			return
		}
	}

	h.sessionStore.ClearSessionCookie(c)

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"message": "logged out successfully",
	}))
}
