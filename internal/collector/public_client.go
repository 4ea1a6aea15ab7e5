package collector

import (
	"context"
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
	DefaultPublicBaseURL = "https://www.reddit.com"

	modePublic = "public"
)

// PublicClient reads the unauthenticated .json listings. It needs no
// credentials but Reddit throttles it harder.
type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	logger     zerolog.Logger
}

func NewPublicClient(userAgent, baseURL string, hc *http.Client, interval time.Duration, logger *zerolog.Logger) (*PublicClient, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, fmt.Errorf("user agent is required for public mode")
	}
	if baseURL == "" {
		baseURL = DefaultPublicBaseURL
	}
	return &PublicClient{
		httpClient: withUserAgent(hc, userAgent),
		limiter:    newLimiter(interval),
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     componentLogger(logger, "reddit_public"),
	}, nil
}

func (pc *PublicClient) FetchRecentPosts(ctx context.Context, community string, limit int) []domain.Post {
	start := time.Now()

	name, ok := normalizeCommunity(community)
	if !ok {
		pc.logger.Warn().Str("community", community).Msg("Invalid community name, skipping fetch")
		return nil
	}

	posts, err := pc.fetch(ctx, name, clampLimit(limit))
	if err != nil {
		logFetchError(&pc.logger, err, name)
		metrics.ObserveFetch(modePublic, metrics.OutcomeError, start)
		return nil
	}
	metrics.ObserveFetch(modePublic, metrics.OutcomeOK, start)
	return posts
}

func (pc *PublicClient) fetch(ctx context.Context, name string, limit int) ([]domain.Post, error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Kind: FetchCanceled, Err: err}
	}

	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d&raw_json=1", pc.baseURL, name, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, Err: err}
	}

	resp, err := pc.httpClient.Do(req)
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
