// Package selector picks posts out of a fetched listing.
package selector

import "github.com/qepting91/subreddit-bot/internal/domain"

// FindMostPopular returns the post with the highest score, or nil when posts
// is nil or empty. The first post wins on ties. The returned pointer refers
// into posts; the slice is never modified.
func FindMostPopular(posts []domain.Post) *domain.Post {
	if len(posts) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(posts); i++ {
		if posts[i].Score > posts[best].Score {
			best = i
		}
	}
	return &posts[best]
}
