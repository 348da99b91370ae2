package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizmaster-service/internal/domain"
)

// QuizRepository is an in-memory implementation of app.QuizRepository.
type QuizRepository struct {
	mu      sync.RWMutex
	clock   func() time.Time
	quizzes map[string]domain.Quiz
	order   []string
}

func NewQuizRepository() *QuizRepository {
	return NewQuizRepositoryWithClock(time.Now)
}

// NewQuizRepositoryWithClock allows deterministic timestamps in tests.
func NewQuizRepositoryWithClock(now func() time.Time) *QuizRepository {
	return &QuizRepository{
		clock:   now,
		quizzes: make(map[string]domain.Quiz),
	}
}

func (r *QuizRepository) Create(_ context.Context, quiz *domain.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quiz.ID = uuid.NewString()
	quiz.CreatedAt = r.clock()

	r.quizzes[quiz.ID] = *quiz
	r.order = append(r.order, quiz.ID)
	return nil
}

func (r *QuizRepository) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quiz, ok := r.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (r *QuizRepository) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quizzes := make([]domain.Quiz, 0, len(r.order))
	for _, id := range r.order {
		quizzes = append(quizzes, r.quizzes[id])
	}
	return quizzes, nil
}

// Exists reports whether a quiz ID is known; the result repository uses it
// for foreign-key discipline.
func (r *QuizRepository) Exists(quizID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.quizzes[quizID]
	return ok
}
