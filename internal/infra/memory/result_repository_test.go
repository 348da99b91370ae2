package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizmaster-service/internal/domain"
)

type repoFixture struct {
	users   *UserRepository
	quizzes *QuizRepository
	results *ResultRepository
	clock   *fakeClock
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newRepoFixture(t *testing.T) *repoFixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	users := NewUserRepositoryWithClock(clock.Now)
	quizzes := NewQuizRepositoryWithClock(clock.Now)
	return &repoFixture{
		users:   users,
		quizzes: quizzes,
		results: NewResultRepositoryWithClock(users, quizzes, clock.Now),
		clock:   clock,
	}
}

func (f *repoFixture) seedUserAndQuiz(t *testing.T) (domain.User, domain.Quiz) {
	t.Helper()
	user := domain.User{Name: "Alice", Email: "alice@example.com"}
	if err := f.users.Create(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	quiz := domain.Quiz{
		Title:          "Science Quiz",
		Questions:      []domain.Question{{Prompt: "Q1", Options: []string{"a", "b"}, CorrectAnswer: 0}},
		TotalQuestions: 1,
	}
	if err := f.quizzes.Create(context.Background(), &quiz); err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return user, quiz
}

func TestResultRepositoryForeignKeys(t *testing.T) {
	f := newRepoFixture(t)
	user, quiz := f.seedUserAndQuiz(t)

	err := f.results.Create(context.Background(), &domain.Result{UserID: "ghost", QuizID: quiz.ID})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error for unknown user, got %v", err)
	}

	err = f.results.Create(context.Background(), &domain.Result{UserID: user.ID, QuizID: "ghost"})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error for unknown quiz, got %v", err)
	}
}

func TestResultRepositoryCreateAssignsIdentity(t *testing.T) {
	f := newRepoFixture(t)
	user, quiz := f.seedUserAndQuiz(t)

	result := domain.Result{UserID: user.ID, QuizID: quiz.ID, Score: 1, Percentage: 100}
	if err := f.results.Create(context.Background(), &result); err != nil {
		t.Fatalf("create result: %v", err)
	}
	if result.ID == "" {
		t.Fatal("expected result ID to be assigned")
	}
	if !result.AttemptedAt.Equal(f.clock.Now()) {
		t.Fatalf("AttemptedAt = %v, want clock time %v", result.AttemptedAt, f.clock.Now())
	}

	got, err := f.results.GetByID(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Score != 1 || got.Percentage != 100 {
		t.Fatalf("stored result = %+v", got)
	}

	if _, err := f.results.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected result not found, got %v", err)
	}
}

func TestResultRepositoryListByUserOrdering(t *testing.T) {
	f := newRepoFixture(t)
	user, quiz := f.seedUserAndQuiz(t)

	create := func(score int) domain.Result {
		t.Helper()
		result := domain.Result{UserID: user.ID, QuizID: quiz.ID, Score: score}
		if err := f.results.Create(context.Background(), &result); err != nil {
			t.Fatalf("create result: %v", err)
		}
		return result
	}

	create(1)
	f.clock.Advance(time.Minute)
	create(2)
	f.clock.Advance(time.Minute)
	// Two attempts at the same instant; the later insertion sorts first.
	create(3)
	create(4)

	results, err := f.results.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	scores := make([]int, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}
	want := []int{4, 3, 2, 1}
	for i := range want {
		if scores[i] != want[i] {
			t.Fatalf("scores = %v, want %v", scores, want)
		}
	}

	limited, err := f.results.ListByUserLimited(context.Background(), user.ID, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 || limited[0].Score != 4 || limited[1].Score != 3 {
		t.Fatalf("limited = %+v, want two newest", limited)
	}
}

func TestResultRepositoryListByUserEmpty(t *testing.T) {
	f := newRepoFixture(t)
	user, _ := f.seedUserAndQuiz(t)

	results, err := f.results.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want none", len(results))
	}
}

func TestResultRepositoryGroupedByUser(t *testing.T) {
	f := newRepoFixture(t)
	alice, quiz := f.seedUserAndQuiz(t)

	bob := domain.User{Name: "Bob", Email: "bob@example.com"}
	if err := f.users.Create(context.Background(), &bob); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	for _, userID := range []string{alice.ID, alice.ID, bob.ID} {
		result := domain.Result{UserID: userID, QuizID: quiz.ID}
		if err := f.results.Create(context.Background(), &result); err != nil {
			t.Fatalf("create result: %v", err)
		}
	}

	grouped, err := f.results.ListGroupedByUser(context.Background())
	if err != nil {
		t.Fatalf("grouped: %v", err)
	}
	if len(grouped[alice.ID]) != 2 || len(grouped[bob.ID]) != 1 {
		t.Fatalf("grouped sizes = %d/%d, want 2/1", len(grouped[alice.ID]), len(grouped[bob.ID]))
	}
}

func TestUserRepositoryEmailUniqueness(t *testing.T) {
	f := newRepoFixture(t)

	first := domain.User{Name: "Alice", Email: "alice@example.com"}
	if err := f.users.Create(context.Background(), &first); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := domain.User{Name: "Other", Email: "alice@example.com"}
	if err := f.users.Create(context.Background(), &dup); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}

	got, err := f.users.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("got user %q, want %q", got.ID, first.ID)
	}

	if _, err := f.users.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestQuizRepositoryListOrder(t *testing.T) {
	f := newRepoFixture(t)

	for _, title := range []string{"First", "Second", "Third"} {
		quiz := domain.Quiz{Title: title, Questions: []domain.Question{{Prompt: "Q", Options: []string{"a"}}}}
		if err := f.quizzes.Create(context.Background(), &quiz); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	quizzes, err := f.quizzes.ListQuizzes(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 3 {
		t.Fatalf("got %d quizzes, want 3", len(quizzes))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if quizzes[i].Title != want {
			t.Fatalf("quizzes[%d] = %q, want %q", i, quizzes[i].Title, want)
		}
	}

	if _, err := f.quizzes.GetQuiz(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}
