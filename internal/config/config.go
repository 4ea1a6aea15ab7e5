package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/qepting91/subreddit-bot/internal/logging"
)

// Collector modes selectable through REDDIT_MODE.
const (
	ModeOAuth   = "oauth"
	ModeLibrary = "library"
	ModePublic  = "public"
	ModeMock    = "mock"
)

type RedditConfig struct {
	Mode         string `env:"REDDIT_MODE,default=oauth" validate:"required,oneof=oauth library public mock"`
	ClientID     string `env:"REDDIT_CLIENT_ID"`
	ClientSecret string `env:"REDDIT_CLIENT_SECRET"`
	Username     string `env:"REDDIT_USERNAME"`
	Password     string `env:"REDDIT_PASSWORD"`
	UserAgent    string `env:"REDDIT_USER_AGENT" validate:"required"`

	TokenURL    string `env:"REDDIT_TOKEN_URL,default=https://www.reddit.com/api/v1/access_token" validate:"required,url"`
	APIURL      string `env:"REDDIT_API_URL,default=https://oauth.reddit.com" validate:"required,url"`
	PublicURL   string `env:"REDDIT_PUBLIC_URL,default=https://www.reddit.com" validate:"required,url"`
	LinkBaseURL string `env:"REDDIT_LINK_BASE_URL,default=https://www.reddit.com" validate:"required,url"`

	HTTPTimeout     time.Duration `env:"REDDIT_HTTP_TIMEOUT,default=10s,strict" validate:"gt=0"`
	RequestInterval time.Duration `env:"REDDIT_REQUEST_INTERVAL,default=600ms,strict" validate:"gte=0"`
	PostLimit       int           `env:"REDDIT_POST_LIMIT,default=20,strict" validate:"min=1,max=100"`
}

// NeedsCredentials reports whether the selected mode authenticates.
func (c RedditConfig) NeedsCredentials() bool {
	return c.Mode == ModeOAuth || c.Mode == ModeLibrary
}

func (c RedditConfig) validateCredentials() error {
	if !c.NeedsCredentials() {
		return nil
	}

	var missing []string
	for _, f := range []struct{ env, value string }{
		{"REDDIT_CLIENT_ID", c.ClientID},
		{"REDDIT_CLIENT_SECRET", c.ClientSecret},
		{"REDDIT_USERNAME", c.Username},
		{"REDDIT_PASSWORD", c.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required when REDDIT_MODE=%s", strings.Join(missing, ", "), c.Mode)
	}
	return nil
}

type TelegramConfig struct {
	Token       string `env:"TELEGRAM_BOT_TOKEN" validate:"required"`
	APIEndpoint string `env:"TELEGRAM_API_ENDPOINT"`
	Debug       bool   `env:"TELEGRAM_DEBUG,default=false,strict"`
	Workers     int    `env:"BOT_WORKERS,default=8,strict" validate:"min=1,max=256"`
}

type OpsConfig struct {
	// Addr enables the health/metrics listener when set, e.g. ":9090".
	Addr            string        `env:"OPS_ADDR"`
	ShutdownTimeout time.Duration `env:"OPS_SHUTDOWN_TIMEOUT,default=5s,strict" validate:"gt=0"`
}

type Config struct {
	Reddit   RedditConfig   `env:""`
	Telegram TelegramConfig `env:""`
	Log      logging.Config `env:""`
	Ops      OpsConfig      `env:""`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv decodes and validates the configuration from the process environment.
func FromEnv() (*Config, error) {
	var cfg Config

	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := ValidateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Reddit.validateCredentials(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
