package collector

import (
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
)

const testUserAgent = "test:subreddit-bot:v0 (by /u/tester)"

var testCreds = Credentials{
	ClientID:     "client-id",
	ClientSecret: "client-secret",
	Username:     "tester",
	Password:     "hunter2",
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:443: connect: connection refused")

// countingTransport counts round trips and delegates to next, or fails with err.
type countingTransport struct {
	calls atomic.Int32
	err   error
	next  http.RoundTripper
	// failFirst makes only the first N calls fail with err.
	failFirst int32
}

func (ct *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	n := ct.calls.Add(1)
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	if ct.err != nil && (ct.failFirst == 0 || n <= ct.failFirst) {
		return nil, ct.err
	}
	next := ct.next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(req)
}

func newTestClient(t *testing.T, tokenURL, apiURL string, rt http.RoundTripper) *RedditClient {
	t.Helper()
	return newRedditClient(Options{
		Credentials: testCreds,
		UserAgent:   testUserAgent,
		TokenURL:    tokenURL,
		APIBaseURL:  apiURL,
		HTTPClient:  &http.Client{Transport: rt},
	}, nil)
}

func asAuthError(t *testing.T, err error) *AuthError {
	t.Helper()
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T: %v", err, err)
	}
	return authErr
}
