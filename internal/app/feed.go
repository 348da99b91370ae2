package app

import (
	"sync"

	"quizmaster-service/internal/domain"
)

// LeaderboardFeed fans fresh leaderboard snapshots out to live subscribers
// (the websocket transport). Publishing never blocks on a slow subscriber.
type LeaderboardFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardFeed() *LeaderboardFeed {
	return &LeaderboardFeed{
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Subscribe returns a channel of snapshots. The caller must invoke the
// returned cancel function to avoid leaks.
func (f *LeaderboardFeed) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// HasSubscribers reports whether anyone is listening, letting callers skip
// the recompute when nobody is.
func (f *LeaderboardFeed) HasSubscribers() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers) > 0
}

// Publish delivers a snapshot to every subscriber, dropping a stale pending
// snapshot when a subscriber's buffer is full.
func (f *LeaderboardFeed) Publish(lb domain.Leaderboard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- lb:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
