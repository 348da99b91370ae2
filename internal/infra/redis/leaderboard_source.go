package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

const leaderboardKey = "leaderboard:top"

// LeaderboardSource caches the computed board in Redis for a short TTL,
// collapsing concurrent recomputes with singleflight. It satisfies the same
// contract as the recompute-on-demand source it wraps, so the two are
// interchangeable.
type LeaderboardSource struct {
	client *redis.Client
	inner  app.LeaderboardSource
	ttl    time.Duration
	sf     singleflight.Group
}

func NewLeaderboardSource(client *redis.Client, inner app.LeaderboardSource, ttl time.Duration) *LeaderboardSource {
	return &LeaderboardSource{client: client, inner: inner, ttl: ttl}
}

func (s *LeaderboardSource) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	if lb, ok := s.lookup(ctx); ok {
		return lb, nil
	}

	result, err, _ := s.sf.Do(leaderboardKey, func() (interface{}, error) {
		if lb, ok := s.lookup(ctx); ok {
			return lb, nil
		}
		lb, err := s.inner.Leaderboard(ctx)
		if err != nil {
			return domain.Leaderboard{}, err
		}
		if raw, err := json.Marshal(lb); err == nil {
			_ = s.client.Set(ctx, leaderboardKey, raw, s.ttl).Err()
		}
		return lb, nil
	})
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return result.(domain.Leaderboard), nil
}

func (s *LeaderboardSource) lookup(ctx context.Context) (domain.Leaderboard, bool) {
	raw, err := s.client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		return domain.Leaderboard{}, false
	}
	var lb domain.Leaderboard
	if err := json.Unmarshal(raw, &lb); err != nil {
		return domain.Leaderboard{}, false
	}
	return lb, true
}
