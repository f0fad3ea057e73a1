package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// OAuthUserInfo is the part of a provider profile the mess needs
type OAuthUserInfo struct {
	ProviderID  string
	Email       string
	DisplayName string
}

// ProviderConfig holds the credentials for an OAuth provider
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
}

type userInfoFetcher func(ctx context.Context, client *http.Client) (*OAuthUserInfo, error)

type oauthProvider struct {
	config *oauth2.Config
	fetch  userInfoFetcher
}

// OAuthConfig holds every configured sign-in provider
type OAuthConfig struct {
	providers map[Provider]oauthProvider
}

// NewOAuthConfig registers the providers whose credentials are present
func NewOAuthConfig(googleCfg, githubCfg ProviderConfig, callbackBaseURL string) *OAuthConfig {
	c := &OAuthConfig{providers: make(map[Provider]oauthProvider)}

	if googleCfg.ClientID != "" && googleCfg.ClientSecret != "" {
		c.providers[ProviderGoogle] = oauthProvider{
			config: &oauth2.Config{
				ClientID:     googleCfg.ClientID,
				ClientSecret: googleCfg.ClientSecret,
				RedirectURL:  callbackBaseURL + "/api/auth/callback/google",
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
				Endpoint: google.Endpoint,
			},
			fetch: fetchGoogleUser,
		}
	}

	if githubCfg.ClientID != "" && githubCfg.ClientSecret != "" {
		c.providers[ProviderGitHub] = oauthProvider{
			config: &oauth2.Config{
				ClientID:     githubCfg.ClientID,
				ClientSecret: githubCfg.ClientSecret,
				RedirectURL:  callbackBaseURL + "/api/auth/callback/github",
				Scopes:       []string{"user:email", "read:user"},
				Endpoint:     github.Endpoint,
			},
			fetch: fetchGitHubUser,
		}
	}

	return c
}

// IsProviderConfigured checks if a provider is configured
func (c *OAuthConfig) IsProviderConfigured(provider Provider) bool {
	_, ok := c.providers[provider]
	return ok
}

// AuthURL returns the consent page URL for provider
func (c *OAuthConfig) AuthURL(provider Provider, state string) (string, error) {
	p, ok := c.providers[provider]
	if !ok {
		return "", fmt.Errorf("%s sign-in not configured", provider)
	}
	return p.config.AuthCodeURL(state), nil
}

// Authenticate exchanges the code and loads the provider profile
func (c *OAuthConfig) Authenticate(ctx context.Context, provider Provider, code string) (*OAuthUserInfo, error) {
	p, ok := c.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%s sign-in not configured", provider)
	}
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	info, err := p.fetch(ctx, p.config.Client(ctx, token))
	if err != nil {
		return nil, fmt.Errorf("fetch %s profile: %w", provider, err)
	}
	if info.DisplayName == "" {
		info.DisplayName = info.Email
	}
	return info, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func fetchGoogleUser(ctx context.Context, client *http.Client) (*OAuthUserInfo, error) {
	var info struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("email not provided by Google")
	}
	return &OAuthUserInfo{ProviderID: info.ID, Email: info.Email, DisplayName: info.Name}, nil
}

func fetchGitHubUser(ctx context.Context, client *http.Client) (*OAuthUserInfo, error) {
	var info struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(ctx, client, "https://api.github.com/user", &info); err != nil {
		return nil, err
	}

	email := info.Email
	if email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Verified && (email == "" || e.Primary) {
				email = e.Email
			}
		}
		if email == "" {
			return nil, fmt.Errorf("no verified email found")
		}
	}

	name := info.Name
	if name == "" {
		name = info.Login
	}
	return &OAuthUserInfo{ProviderID: strconv.FormatInt(info.ID, 10), Email: email, DisplayName: name}, nil
}
