package app

import (
	"context"
	"math"
	"sort"
	"time"

	"quizmaster-service/internal/domain"
)

// DefaultLeaderboardSize caps the number of ranked rows returned.
const DefaultLeaderboardSize = 20

// ComputeStats derives summary statistics from a user's result set. An empty
// set yields all-zero stats, not an error: zero-result users are valid.
//
// AverageScore is the mean of the per-result percentages rounded to two
// decimals, half away from zero (math.Round). BestScore stays unrounded.
// TotalPoints sums raw correct counts, not percentages.
func ComputeStats(results []domain.Result) domain.UserStats {
	if len(results) == 0 {
		return domain.UserStats{}
	}

	var sum, best float64
	points := 0
	for _, r := range results {
		sum += r.Percentage
		if r.Percentage > best {
			best = r.Percentage
		}
		points += r.Score
	}

	return domain.UserStats{
		TotalQuizzes: len(results),
		AverageScore: math.Round(sum/float64(len(results))*100) / 100,
		BestScore:    best,
		TotalPoints:  points,
	}
}

// BuildLeaderboard ranks users by their aggregated stats. Users with no
// results are excluded, and the board is truncated to limit rows.
//
// Sort order is average score descending, then total points descending, then
// name ascending. The original board relied on an unstable primary key alone;
// the secondary keys make the order reproducible.
func BuildLeaderboard(users []domain.User, resultsByUser map[string][]domain.Result, limit int) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for _, user := range users {
		stats := ComputeStats(resultsByUser[user.ID])
		if stats.TotalQuizzes == 0 {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			Name:         user.Name,
			TotalQuizzes: stats.TotalQuizzes,
			AverageScore: stats.AverageScore,
			BestScore:    stats.BestScore,
			TotalPoints:  stats.TotalPoints,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AverageScore != entries[j].AverageScore {
			return entries[i].AverageScore > entries[j].AverageScore
		}
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].Name < entries[j].Name
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// LeaderboardSource yields the current ranked board. The default source
// recomputes from storage on every call; a cached source (e.g. Redis-backed)
// can be swapped in without changing the contract.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context) (domain.Leaderboard, error)
}

// StatsLeaderboard is the recompute-on-demand LeaderboardSource. O(users ×
// results-per-user) per call, acceptable at small scale.
type StatsLeaderboard struct {
	users   UserRepository
	results ResultRepository
	limit   int
	now     func() time.Time
}

func NewStatsLeaderboard(users UserRepository, results ResultRepository, limit int) *StatsLeaderboard {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	return &StatsLeaderboard{users: users, results: results, limit: limit, now: time.Now}
}

func (l *StatsLeaderboard) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	users, err := l.users.List(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	grouped, err := l.results.ListGroupedByUser(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return domain.Leaderboard{
		Entries:   BuildLeaderboard(users, grouped, l.limit),
		UpdatedAt: l.now(),
	}, nil
}
