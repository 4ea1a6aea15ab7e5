package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
)

// Post is a single subreddit submission as relayed to chat.
type Post struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Body         string  `json:"selftext"`
	Permalink    string  `json:"permalink"`
	URL          string  `json:"url"`
	Subreddit    string  `json:"subreddit_name_prefixed"`
	Author       string  `json:"author"`
	Score        Score   `json:"score"`
	CommentCount int     `json:"num_comments"`
	CreatedUTC   float64 `json:"created_utc"`
}

// Score is a post's net upvote count. Missing or malformed values decode as 0.
type Score int

func (s *Score) UnmarshalJSON(b []byte) error {
	*s = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' || b[0] == '"' || b[0] == '{' || b[0] == '[' || b[0] == 't' || b[0] == 'f' {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	if math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	*s = Score(int(f))
	return nil
}

// Collector fetches the newest posts of a community. Implementations degrade
// to an empty slice instead of returning errors.
type Collector interface {
	FetchRecentPosts(ctx context.Context, community string, limit int) []Post
}
