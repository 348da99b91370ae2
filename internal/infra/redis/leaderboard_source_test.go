package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizmaster-service/internal/domain"
)

// countingLeaderboardSource serves a fixed board and counts recomputes.
type countingLeaderboardSource struct {
	board domain.Leaderboard
	err   error
	calls int
}

func (s *countingLeaderboardSource) Leaderboard(_ context.Context) (domain.Leaderboard, error) {
	s.calls++
	if s.err != nil {
		return domain.Leaderboard{}, s.err
	}
	return s.board, nil
}

func TestLeaderboardSourceCaches(t *testing.T) {
	_, client := newTestRedis(t)
	inner := &countingLeaderboardSource{
		board: domain.Leaderboard{
			Entries: []domain.LeaderboardEntry{
				{Name: "Alice", TotalQuizzes: 3, AverageScore: 91.67, BestScore: 100, TotalPoints: 12},
			},
			UpdatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	source := NewLeaderboardSource(client, inner, time.Minute)

	first, err := source.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := source.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if inner.calls != 1 {
		t.Fatalf("inner recomputed %d times, want 1", inner.calls)
	}
	if len(second.Entries) != 1 || second.Entries[0].Name != "Alice" {
		t.Fatalf("cached board = %+v", second)
	}
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Fatalf("cached UpdatedAt = %v, want %v", second.UpdatedAt, first.UpdatedAt)
	}
}

func TestLeaderboardSourceExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	inner := &countingLeaderboardSource{board: domain.Leaderboard{UpdatedAt: time.Unix(1, 0)}}
	source := NewLeaderboardSource(client, inner, 15*time.Second)

	if _, err := source.Leaderboard(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}

	mr.FastForward(30 * time.Second)

	if _, err := source.Leaderboard(context.Background()); err != nil {
		t.Fatalf("call after expiry: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("inner recomputed %d times, want 2 after expiry", inner.calls)
	}
}

func TestLeaderboardSourcePropagatesError(t *testing.T) {
	_, client := newTestRedis(t)
	wantErr := errors.New("storage down")
	source := NewLeaderboardSource(client, &countingLeaderboardSource{err: wantErr}, time.Minute)

	if _, err := source.Leaderboard(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected inner error, got %v", err)
	}
}
