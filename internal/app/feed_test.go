package app

import (
	"testing"
	"time"

	"quizmaster-service/internal/domain"
)

func TestLeaderboardFeedSubscribePublish(t *testing.T) {
	feed := NewLeaderboardFeed()
	if feed.HasSubscribers() {
		t.Fatal("expected no subscribers on a fresh feed")
	}

	ch, cancel := feed.Subscribe()
	defer cancel()

	if !feed.HasSubscribers() {
		t.Fatal("expected a subscriber after Subscribe")
	}

	want := domain.Leaderboard{UpdatedAt: time.Unix(100, 0)}
	feed.Publish(want)

	select {
	case got := <-ch:
		if !got.UpdatedAt.Equal(want.UpdatedAt) {
			t.Fatalf("got snapshot %v, want %v", got.UpdatedAt, want.UpdatedAt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestLeaderboardFeedDropsStaleSnapshots(t *testing.T) {
	feed := NewLeaderboardFeed()
	ch, cancel := feed.Subscribe()
	defer cancel()

	// Publish past the buffer without reading; the oldest snapshots are shed.
	for i := 1; i <= 10; i++ {
		feed.Publish(domain.Leaderboard{UpdatedAt: time.Unix(int64(i), 0)})
	}

	var last domain.Leaderboard
	count := 0
drain:
	for {
		select {
		case lb := <-ch:
			last = lb
			count++
		default:
			break drain
		}
	}

	if count > 8 {
		t.Fatalf("buffered %d snapshots, want at most 8", count)
	}
	if !last.UpdatedAt.Equal(time.Unix(10, 0)) {
		t.Fatalf("last snapshot is %v, want the most recent publish", last.UpdatedAt)
	}
}

func TestLeaderboardFeedCancel(t *testing.T) {
	feed := NewLeaderboardFeed()
	ch, cancel := feed.Subscribe()

	cancel()
	cancel() // idempotent

	if feed.HasSubscribers() {
		t.Fatal("expected no subscribers after cancel")
	}
	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}

	// Publishing with no subscribers is a no-op.
	feed.Publish(domain.Leaderboard{UpdatedAt: time.Unix(1, 0)})
}
