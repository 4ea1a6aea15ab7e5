package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/subreddit-bot/internal/domain"
	"github.com/qepting91/subreddit-bot/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const modeLibrary = "library"

// LibraryClient fetches listings through go-reddit, which manages its own
// OAuth token lazily on first request.
type LibraryClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

func NewLibraryClient(creds Credentials, userAgent string, interval time.Duration, logger *zerolog.Logger) (*LibraryClient, error) {
	if !creds.complete() {
		return nil, &AuthError{Kind: AuthInvalidCredentials, Err: errMissingCredentials}
	}

	client, err := reddit.NewClient(reddit.Credentials{
		ID:       creds.ClientID,
		Secret:   creds.ClientSecret,
		Username: creds.Username,
		Password: creds.Password,
	}, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, fmt.Errorf("create reddit client: %w", err)
	}

	return &LibraryClient{
		client:  client,
		limiter: newLimiter(interval),
		logger:  componentLogger(logger, "reddit_library"),
	}, nil
}

func (lc *LibraryClient) FetchRecentPosts(ctx context.Context, community string, limit int) []domain.Post {
	start := time.Now()

	name, ok := normalizeCommunity(community)
	if !ok {
		lc.logger.Warn().Str("community", community).Msg("Invalid community name, skipping fetch")
		return nil
	}

	if err := lc.limiter.Wait(ctx); err != nil {
		logFetchError(&lc.logger, &FetchError{Kind: FetchCanceled, Err: err}, name)
		metrics.ObserveFetch(modeLibrary, metrics.OutcomeError, start)
		return nil
	}

	posts, _, err := lc.client.Subreddit.NewPosts(ctx, name, &reddit.ListOptions{Limit: clampLimit(limit)})
	if err != nil {
		logFetchError(&lc.logger, classifyLibraryError(err), name)
		metrics.ObserveFetch(modeLibrary, metrics.OutcomeError, start)
		return nil
	}

	result := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		result = append(result, fromLibraryPost(p))
	}
	metrics.ObserveFetch(modeLibrary, metrics.OutcomeOK, start)
	return result
}

// classifyLibraryError maps go-reddit failures onto the fetch error kinds the
// other collectors report.
func classifyLibraryError(err error) *FetchError {
	var respErr *reddit.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return &FetchError{Kind: FetchHTTP, StatusCode: respErr.Response.StatusCode, Err: err}
	}
	var rateErr *reddit.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return &FetchError{Kind: FetchHTTP, StatusCode: rateErr.Response.StatusCode, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: FetchCanceled, Err: err}
	}
	return &FetchError{Kind: FetchNetwork, Err: err}
}

func fromLibraryPost(p *reddit.Post) domain.Post {
	post := domain.Post{
		ID:           p.ID,
		Title:        p.Title,
		Body:         p.Body,
		Permalink:    p.Permalink,
		URL:          p.URL,
		Subreddit:    p.SubredditNamePrefixed,
		Author:       p.Author,
		Score:        domain.Score(p.Score),
		CommentCount: p.NumberOfComments,
	}
	if p.Created != nil {
		post.CreatedUTC = float64(p.Created.Time.Unix())
	}
	return post
}
