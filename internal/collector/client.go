package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/qepting91/subreddit-bot/internal/domain"
	"github.com/qepting91/subreddit-bot/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultTokenURL   = "https://www.reddit.com/api/v1/access_token"
	DefaultAPIBaseURL = "https://oauth.reddit.com"

	modeOAuth = "oauth"
)

// Credentials are the script-app credentials used for the password grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

func (c Credentials) complete() bool {
	for _, v := range []string{c.ClientID, c.ClientSecret, c.Username, c.Password} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Options configure a RedditClient. Zero values fall back to Reddit's public endpoints.
type Options struct {
	Credentials Credentials
	UserAgent   string
	TokenURL    string
	APIBaseURL  string
	// HTTPClient is copied, never modified. Nil means a client without a timeout.
	HTTPClient *http.Client
	// RequestInterval spaces listing requests. Zero disables pacing.
	RequestInterval time.Duration
}

// RedditClient talks to the OAuth API with a bearer token obtained once at
// construction. It is safe for concurrent use.
type RedditClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	tokenURL   string
	apiBaseURL string
	token      string
	logger     zerolog.Logger
}

// NewRedditClient builds a client and authenticates it. An *AuthError is
// returned when no token could be obtained.
func NewRedditClient(ctx context.Context, opts Options, logger *zerolog.Logger) (*RedditClient, error) {
	rc := newRedditClient(opts, logger)

	token, err := rc.Authenticate(ctx, opts.Credentials)
	if err != nil {
		return nil, err
	}
	rc.token = token
	return rc, nil
}

func newRedditClient(opts Options, logger *zerolog.Logger) *RedditClient {
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = DefaultAPIBaseURL
	}

	return &RedditClient{
		httpClient: withUserAgent(opts.HTTPClient, opts.UserAgent),
		limiter:    newLimiter(opts.RequestInterval),
		tokenURL:   opts.TokenURL,
		apiBaseURL: strings.TrimRight(opts.APIBaseURL, "/"),
		logger:     componentLogger(logger, "reddit_oauth"),
	}
}

// FetchRecentPosts returns up to limit of the newest posts in community.
// Invalid names and every kind of failure yield an empty result.
func (rc *RedditClient) FetchRecentPosts(ctx context.Context, community string, limit int) []domain.Post {
	start := time.Now()

	name, ok := normalizeCommunity(community)
	if !ok {
		rc.logger.Warn().Str("community", community).Msg("Invalid community name, skipping fetch")
		return nil
	}

	posts, err := rc.fetch(ctx, name, clampLimit(limit))
	if err != nil {
		logFetchError(&rc.logger, err, name)
		metrics.ObserveFetch(modeOAuth, metrics.OutcomeError, start)
		return nil
	}

	outcome := metrics.OutcomeOK
	if len(posts) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveFetch(modeOAuth, outcome, start)
	rc.logger.Debug().Str("community", name).Int("count", len(posts)).Msg("Fetched posts")
	return posts
}

func (rc *RedditClient) fetch(ctx context.Context, name string, limit int) ([]domain.Post, error) {
	if err := rc.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Kind: FetchCanceled, Err: err}
	}

	url := fmt.Sprintf("%s/r/%s/new?limit=%d&raw_json=1", rc.apiBaseURL, name, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, Err: err}
	}
	req.Header.Set("Authorization", "bearer "+rc.token)

	resp, err := rc.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Kind: FetchHTTP, StatusCode: resp.StatusCode}
	}

	posts, err := decodeListing(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: FetchDecode, Err: err}
	}
	return posts, nil
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

func componentLogger(logger *zerolog.Logger, component string) zerolog.Logger {
	if logger == nil {
		return zerolog.Nop()
	}
	return logger.With().Str("component", component).Logger()
}

func logFetchError(logger *zerolog.Logger, err error, community string) {
	ev := logger.Error().Err(err).Str("community", community)
	var fe *FetchError
	if errors.As(err, &fe) {
		ev = ev.Str("kind", fe.Kind.String())
		if fe.StatusCode != 0 {
			ev = ev.Int("status", fe.StatusCode)
		}
	}
	ev.Msg("Failed to fetch posts")
}
