package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/qepting91/subreddit-bot/internal/config"
	"github.com/qepting91/subreddit-bot/internal/domain"
	"github.com/rs/zerolog"
)

const mockLatency = 200 * time.Millisecond

// NewCollector selects the implementation for cfg.Mode. In oauth mode the
// client authenticates before returning, so an *AuthError here means the
// process has no usable token.
func NewCollector(ctx context.Context, cfg config.RedditConfig, logger *zerolog.Logger) (domain.Collector, error) {
	creds := Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Username:     cfg.Username,
		Password:     cfg.Password,
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var (
		c   domain.Collector
		err error
	)
	switch cfg.Mode {
	case config.ModeOAuth:
		var rc *RedditClient
		rc, err = NewRedditClient(ctx, Options{
			Credentials:     creds,
			UserAgent:       cfg.UserAgent,
			TokenURL:        cfg.TokenURL,
			APIBaseURL:      cfg.APIURL,
			HTTPClient:      httpClient,
			RequestInterval: cfg.RequestInterval,
		}, logger)
		c = rc
	case config.ModeLibrary:
		var lc *LibraryClient
		lc, err = NewLibraryClient(creds, cfg.UserAgent, cfg.RequestInterval, logger)
		c = lc
	case config.ModePublic:
		var pc *PublicClient
		pc, err = NewPublicClient(cfg.UserAgent, cfg.PublicURL, httpClient, cfg.RequestInterval, logger)
		c = pc
	case config.ModeMock:
		c = NewMockClient(mockLatency)
	default:
		return nil, fmt.Errorf("unknown REDDIT_MODE: %s (use 'oauth', 'library', 'public', or 'mock')", cfg.Mode)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
