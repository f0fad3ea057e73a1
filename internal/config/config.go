package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"MessAPI/internal/env"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type ProviderCredentials struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type Config struct {
	Server struct {
		Addr    string `yaml:"addr"`
		GinMode string `yaml:"gin_mode"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address             string `yaml:"address"`
		Password            string `yaml:"password"`
		DB                  int    `yaml:"db"`
		MenuCacheTTLSeconds int    `yaml:"menu_cache_ttl_seconds"`
		RealtimeChannel     string `yaml:"realtime_channel"`
	} `yaml:"redis"`

	Auth struct {
		CallbackBaseURL string              `yaml:"callback_base_url"`
		SessionHours    int                 `yaml:"session_hours"`
		SecureCookies   bool                `yaml:"secure_cookies"`
		Google          ProviderCredentials `yaml:"google"`
		GitHub          ProviderCredentials `yaml:"github"`
		RateLimitRPS    float64             `yaml:"rate_limit_rps"`
		RateLimitBurst  int                 `yaml:"rate_limit_burst"`
	} `yaml:"auth"`

	Booking struct {
		EnforceUnique   bool   `yaml:"enforce_unique"`
		Timezone        string `yaml:"timezone"`
		ViewIdleMinutes int    `yaml:"view_idle_minutes"`
	} `yaml:"booking"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
	} `yaml:"monitoring"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Logging struct {
		Level   string `yaml:"level"`
		Console bool   `yaml:"console"`
	} `yaml:"logging"`
}

// Load reads the YAML config at path, expands ${ENV} placeholders and applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		data = []byte(os.ExpandEnv(string(data)))
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = env.GetEnv(env.EnvHTTPAddr, c.Server.Addr)
	c.Server.GinMode = env.GetEnv(env.EnvGinMode, c.Server.GinMode)
	c.Database.Path = env.GetEnv(env.EnvDatabasePath, c.Database.Path)
	c.Logging.Level = env.GetEnv(env.EnvLogLevel, c.Logging.Level)
	c.Logging.Console = env.GetBool(env.EnvLogConsole, c.Logging.Console)
	c.Booking.Timezone = env.GetEnv(env.EnvTimezone, c.Booking.Timezone)
	c.Booking.EnforceUnique = env.GetBool(env.EnvBookingEnforceUnique, c.Booking.EnforceUnique)

	c.Redis.Address = env.GetEnv(env.EnvRedisAddr, c.Redis.Address)
	c.Redis.Password = env.GetEnv(env.EnvRedisPassword, c.Redis.Password)
	c.Redis.DB = env.GetInt(env.EnvRedisDB, c.Redis.DB)

	c.Auth.Google.ClientID = env.GetEnv(env.EnvGoogleClientID, c.Auth.Google.ClientID)
	c.Auth.Google.ClientSecret = env.GetEnv(env.EnvGoogleClientSecret, c.Auth.Google.ClientSecret)
	c.Auth.GitHub.ClientID = env.GetEnv(env.EnvGitHubClientID, c.Auth.GitHub.ClientID)
	c.Auth.GitHub.ClientSecret = env.GetEnv(env.EnvGitHubClientSecret, c.Auth.GitHub.ClientSecret)
	c.Auth.CallbackBaseURL = env.GetEnv(env.EnvAuthCallbackBaseURL, c.Auth.CallbackBaseURL)
	c.Auth.SecureCookies = env.GetBool(env.EnvSecureCookies, c.Auth.SecureCookies)

	c.Telegram.BotToken = env.GetEnv(env.EnvTelegramBotToken, c.Telegram.BotToken)
	c.Telegram.ChatID = env.GetInt64(env.EnvTelegramChatID, c.Telegram.ChatID)
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":9237"
	}
	if c.Database.Path == "" {
		c.Database.Path = "internal/databases/mess.db"
	}
	if c.Auth.CallbackBaseURL == "" {
		c.Auth.CallbackBaseURL = "http://localhost:9237"
	}
	if c.Redis.RealtimeChannel == "" {
		c.Redis.RealtimeChannel = "mess:realtime"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// SessionDuration honours SESSION_DURATION over session_hours.
func (c *Config) SessionDuration() time.Duration {
	d := 7 * 24 * time.Hour
	if c.Auth.SessionHours > 0 {
		d = time.Duration(c.Auth.SessionHours) * time.Hour
	}
	return env.GetDuration(env.EnvSessionDuration, d)
}

func (c *Config) MenuCacheTTL() time.Duration {
	if c.Redis.MenuCacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Redis.MenuCacheTTLSeconds) * time.Second
}

func (c *Config) ViewIdleTimeout() time.Duration {
	if c.Booking.ViewIdleMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Booking.ViewIdleMinutes) * time.Minute
}

func (c *Config) RateLimit() (float64, int) {
	rps, burst := c.Auth.RateLimitRPS, c.Auth.RateLimitBurst
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return rps, burst
}

// Location falls back to UTC when the configured zone is unknown.
func (c *Config) Location() *time.Location {
	if c.Booking.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
