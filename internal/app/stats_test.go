package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizmaster-service/internal/domain"
)

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, domain.UserStats{}, stats)
}

func TestComputeStats(t *testing.T) {
	results := []domain.Result{
		{Score: 5, Percentage: 100},
		{Score: 1, Percentage: 50},
		{Score: 3, Percentage: 75},
	}

	stats := ComputeStats(results)
	assert.Equal(t, 3, stats.TotalQuizzes)
	assert.Equal(t, 75.0, stats.AverageScore)
	assert.Equal(t, 100.0, stats.BestScore)
	assert.Equal(t, 9, stats.TotalPoints)
}

func TestComputeStatsRoundsAverageHalfAwayFromZero(t *testing.T) {
	// (12.5 + 12.75) / 2 = 12.625, exactly representable; rounds up to 12.63.
	results := []domain.Result{
		{Score: 1, Percentage: 12.5},
		{Score: 1, Percentage: 12.75},
	}

	stats := ComputeStats(results)
	assert.Equal(t, 12.63, stats.AverageScore)
}

func TestComputeStatsBestScoreUnrounded(t *testing.T) {
	results := []domain.Result{
		{Score: 1, Percentage: 100.0 / 3.0},
	}

	stats := ComputeStats(results)
	assert.Equal(t, 33.33, stats.AverageScore)
	assert.InDelta(t, 33.333333, stats.BestScore, 1e-6)
}

func TestBuildLeaderboardExcludesUsersWithoutResults(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Name: "Alice"},
		{ID: "u2", Name: "Bob"},
	}
	resultsByUser := map[string][]domain.Result{
		"u1": {{Score: 5, Percentage: 100}},
	}

	entries := BuildLeaderboard(users, resultsByUser, DefaultLeaderboardSize)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].Name)
}

func TestBuildLeaderboardOrdering(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Name: "Zoe"},
		{ID: "u2", Name: "Amy"},
		{ID: "u3", Name: "Ben"},
		{ID: "u4", Name: "Cal"},
	}
	resultsByUser := map[string][]domain.Result{
		// Zoe and Amy tie on average and points; Amy wins the name tie-break.
		"u1": {{Score: 4, Percentage: 80}},
		"u2": {{Score: 4, Percentage: 80}},
		// Ben ties on average but has more points.
		"u3": {{Score: 8, Percentage: 80}},
		// Cal has the best average.
		"u4": {{Score: 1, Percentage: 100}},
	}

	entries := BuildLeaderboard(users, resultsByUser, DefaultLeaderboardSize)
	require.Len(t, entries, 4)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"Cal", "Ben", "Amy", "Zoe"}, names)
}

func TestBuildLeaderboardTruncates(t *testing.T) {
	var users []domain.User
	resultsByUser := make(map[string][]domain.Result)
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("u%02d", i)
		users = append(users, domain.User{ID: id, Name: "User " + id})
		resultsByUser[id] = []domain.Result{{Score: i, Percentage: float64(i)}}
	}

	entries := BuildLeaderboard(users, resultsByUser, DefaultLeaderboardSize)
	assert.Len(t, entries, DefaultLeaderboardSize)
	// Highest average first, the five weakest users fall off the board.
	assert.Equal(t, "User u24", entries[0].Name)
	assert.Equal(t, "User u05", entries[len(entries)-1].Name)
}

func TestBuildLeaderboardNoLimit(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Name: "Alice"},
		{ID: "u2", Name: "Bob"},
	}
	resultsByUser := map[string][]domain.Result{
		"u1": {{Score: 1, Percentage: 50}},
		"u2": {{Score: 1, Percentage: 60}},
	}

	entries := BuildLeaderboard(users, resultsByUser, 0)
	assert.Len(t, entries, 2)
}
