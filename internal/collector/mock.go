package collector

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/qepting91/subreddit-bot/internal/domain"
)

// MockClient implements domain.Collector but returns fake data
type MockClient struct {
	latency time.Duration
}

func NewMockClient(latency time.Duration) *MockClient {
	return &MockClient{latency: latency}
}

func (mc *MockClient) FetchRecentPosts(ctx context.Context, community string, limit int) []domain.Post {
	name, ok := normalizeCommunity(community)
	if !ok {
		return nil
	}

	// Simulate network latency
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(mc.latency):
	}

	limit = clampLimit(limit)
	posts := make([]domain.Post, 0, limit)
	for i := 0; i < limit; i++ {
		id := fmt.Sprintf("mock_%s_%d", name, i)
		posts = append(posts, domain.Post{
			ID:           id,
			Title:        fmt.Sprintf("Simulated r/%s post #%d", name, i),
			Body:         "This post was generated locally.",
			Permalink:    fmt.Sprintf("/r/%s/comments/%s/", name, id),
			Subreddit:    "r/" + name,
			Author:       "simulated_user",
			Score:        domain.Score(rand.Intn(500)),
			CommentCount: rand.Intn(50),
			CreatedUTC:   float64(time.Now().Unix()),
		})
	}
	return posts
}
