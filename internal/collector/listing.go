package collector

import (
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/qepting91/subreddit-bot/internal/domain"
)

const (
	// DefaultPostLimit is the page size used when callers pass a non-positive limit.
	DefaultPostLimit = 20
	maxPostLimit     = 100
)

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)

// normalizeCommunity trims name and reports whether it is a usable subreddit name.
func normalizeCommunity(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if !subNameRegex.MatchString(name) {
		return name, false
	}
	return name, true
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPostLimit
	}
	if limit > maxPostLimit {
		return maxPostLimit
	}
	return limit
}

type redditListing struct {
	Data struct {
		Children []struct {
			Kind string      `json:"kind"`
			Data domain.Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// decodeListing extracts data.children[].data in provider order.
func decodeListing(r io.Reader) ([]domain.Post, error) {
	var listing redditListing
	if err := json.NewDecoder(r).Decode(&listing); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// userAgentTransport sets the User-Agent header Reddit requires on every request.
type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.baseTransport().RoundTrip(req)
}

func (t *userAgentTransport) baseTransport() http.RoundTripper {
	if t.base != nil {
		return t.base
	}
	return http.DefaultTransport
}

// withUserAgent returns a copy of hc whose requests carry userAgent.
func withUserAgent(hc *http.Client, userAgent string) *http.Client {
	if hc == nil {
		hc = &http.Client{}
	}
	wrapped := *hc
	wrapped.Transport = &userAgentTransport{userAgent: userAgent, base: hc.Transport}
	return &wrapped
}
