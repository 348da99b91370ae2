package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizmaster-service/internal/domain"
)

// UserRepository is an in-memory implementation of app.UserRepository and
// auth.UserStore, used for tests and Postgres-less runs.
type UserRepository struct {
	mu      sync.RWMutex
	clock   func() time.Time
	users   map[string]domain.User
	byEmail map[string]string
	order   []string
}

func NewUserRepository() *UserRepository {
	return NewUserRepositoryWithClock(time.Now)
}

// NewUserRepositoryWithClock allows deterministic timestamps in tests.
func NewUserRepositoryWithClock(now func() time.Time) *UserRepository {
	return &UserRepository{
		clock:   now,
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return domain.ErrEmailTaken
	}

	now := r.clock()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	r.order = append(r.order, user.ID)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.users[id], nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

// Exists reports whether a user ID is known; the result repository uses it
// for foreign-key discipline.
func (r *UserRepository) Exists(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[userID]
	return ok
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.users[id])
	}
	return users, nil
}
