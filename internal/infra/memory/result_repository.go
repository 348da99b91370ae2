package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizmaster-service/internal/domain"
)

// ResultRepository is an in-memory implementation of app.ResultRepository.
// It enforces the same foreign-key discipline the Postgres schema does:
// creating a result for an unknown user or quiz fails with domain.ErrStorage.
type ResultRepository struct {
	mu      sync.RWMutex
	clock   func() time.Time
	users   *UserRepository
	quizzes *QuizRepository
	results map[string]storedResult
	byUser  map[string][]string
	seq     uint64
}

type storedResult struct {
	result domain.Result
	seq    uint64
}

func NewResultRepository(users *UserRepository, quizzes *QuizRepository) *ResultRepository {
	return NewResultRepositoryWithClock(users, quizzes, time.Now)
}

// NewResultRepositoryWithClock allows deterministic timestamps in tests.
func NewResultRepositoryWithClock(users *UserRepository, quizzes *QuizRepository, now func() time.Time) *ResultRepository {
	return &ResultRepository{
		clock:   now,
		users:   users,
		quizzes: quizzes,
		results: make(map[string]storedResult),
		byUser:  make(map[string][]string),
	}
}

func (r *ResultRepository) Create(_ context.Context, result *domain.Result) error {
	if !r.users.Exists(result.UserID) {
		return fmt.Errorf("%w: unknown user %s", domain.ErrStorage, result.UserID)
	}
	if !r.quizzes.Exists(result.QuizID) {
		return fmt.Errorf("%w: unknown quiz %s", domain.ErrStorage, result.QuizID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result.ID = uuid.NewString()
	result.AttemptedAt = r.clock()

	r.seq++
	r.results[result.ID] = storedResult{result: *result, seq: r.seq}
	r.byUser[result.UserID] = append(r.byUser[result.UserID], result.ID)
	return nil
}

func (r *ResultRepository) GetByID(_ context.Context, resultID string) (domain.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.results[resultID]
	if !ok {
		return domain.Result{}, domain.ErrResultNotFound
	}
	return stored.result, nil
}

func (r *ResultRepository) ListByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	return r.ListByUserLimited(ctx, userID, 0)
}

func (r *ResultRepository) ListByUserLimited(_ context.Context, userID string, limit int) ([]domain.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := r.sortedByUserLocked(userID)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *ResultRepository) ListGroupedByUser(_ context.Context) (map[string][]domain.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	grouped := make(map[string][]domain.Result, len(r.byUser))
	for userID := range r.byUser {
		grouped[userID] = r.sortedByUserLocked(userID)
	}
	return grouped, nil
}

// sortedByUserLocked returns a user's results newest first; equal timestamps
// keep the later insertion first.
func (r *ResultRepository) sortedByUserLocked(userID string) []domain.Result {
	ids := r.byUser[userID]
	stored := make([]storedResult, 0, len(ids))
	for _, id := range ids {
		stored = append(stored, r.results[id])
	}
	sort.Slice(stored, func(i, j int) bool {
		if !stored[i].result.AttemptedAt.Equal(stored[j].result.AttemptedAt) {
			return stored[i].result.AttemptedAt.After(stored[j].result.AttemptedAt)
		}
		return stored[i].seq > stored[j].seq
	})
	results := make([]domain.Result, len(stored))
	for i, s := range stored {
		results[i] = s.result
	}
	return results
}
