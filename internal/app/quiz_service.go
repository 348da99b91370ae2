package app

import (
	"context"
	"fmt"
	"log/slog"

	"quizmaster-service/internal/domain"
)

// QuizRepository abstracts how quiz definitions are stored (in-memory,
// Postgres behind a Redis cache, etc).
type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) error
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
}

// ResultRepository persists immutable result records. Create assigns the
// identifier and timestamp and must be atomic: a result is either fully
// persisted or not created at all.
type ResultRepository interface {
	Create(ctx context.Context, result *domain.Result) error
	GetByID(ctx context.Context, resultID string) (domain.Result, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Result, error)
	ListByUserLimited(ctx context.Context, userID string, limit int) ([]domain.Result, error)
	ListGroupedByUser(ctx context.Context) (map[string][]domain.Result, error)
}

// UserRepository stores account records. The quiz core only reads users; the
// auth package owns writes.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
}

// QuizService contains the quiz-taking use cases. User identifiers passed in
// are already verified by the auth middleware.
type QuizService struct {
	users       UserRepository
	quizzes     QuizRepository
	results     ResultRepository
	leaderboard LeaderboardSource
	feed        *LeaderboardFeed
}

func NewQuizService(users UserRepository, quizzes QuizRepository, results ResultRepository, leaderboard LeaderboardSource, feed *LeaderboardFeed) *QuizService {
	return &QuizService{
		users:       users,
		quizzes:     quizzes,
		results:     results,
		leaderboard: leaderboard,
		feed:        feed,
	}
}

// CreateQuizInput is the administrative quiz definition payload.
type CreateQuizInput struct {
	Title       string
	Description string
	Difficulty  domain.Difficulty
	Category    string
	Questions   []domain.Question
	TimeLimit   *int
}

// CreateQuiz stores a new quiz definition. The declared question count always
// equals the length of the question sequence.
func (s *QuizService) CreateQuiz(ctx context.Context, in CreateQuizInput) (domain.Quiz, error) {
	if in.Title == "" || len(in.Questions) == 0 {
		return domain.Quiz{}, fmt.Errorf("%w: title and questions are required", domain.ErrValidation)
	}

	quiz := domain.Quiz{
		Title:          in.Title,
		Description:    in.Description,
		Difficulty:     in.Difficulty.Normalize(),
		Category:       in.Category,
		Questions:      in.Questions,
		TotalQuestions: len(in.Questions),
		TimeLimit:      in.TimeLimit,
	}
	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// GetQuiz returns the redacted catalog view of one quiz.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.RedactedQuiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.RedactedQuiz{}, err
	}
	return quiz.Redacted(), nil
}

// ListQuizzes returns the redacted catalog.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.RedactedQuiz, error) {
	quizzes, err := s.quizzes.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	redacted := make([]domain.RedactedQuiz, len(quizzes))
	for i, quiz := range quizzes {
		redacted[i] = quiz.Redacted()
	}
	return redacted, nil
}

// SubmitQuiz grades a submission and persists the immutable result. A nil
// answer sequence is a validation error; an empty one is a valid (all-wrong)
// attempt.
func (s *QuizService) SubmitQuiz(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	if sub.Answers == nil {
		return domain.Result{}, fmt.Errorf("%w: missing answers", domain.ErrValidation)
	}

	quiz, err := s.quizzes.GetQuiz(ctx, sub.QuizID)
	if err != nil {
		return domain.Result{}, err
	}

	correct, percentage := Score(quiz.Questions, sub.Answers)

	result := domain.Result{
		UserID:         sub.UserID,
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		Score:          correct,
		TotalQuestions: len(quiz.Questions),
		Percentage:     percentage,
		Answers:        append([]int(nil), sub.Answers...),
		TimeTaken:      sub.TimeTaken,
	}
	if err := s.results.Create(ctx, &result); err != nil {
		return domain.Result{}, err
	}

	s.publishLeaderboard(ctx)
	return result, nil
}

// GetResult returns the owner-only review of one attempt. Ownership is
// checked before anything beyond the result row is touched, so a non-owner
// never sees the body.
func (s *QuizService) GetResult(ctx context.Context, resultID, requestingUserID string) (domain.ResultDetail, error) {
	result, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		return domain.ResultDetail{}, err
	}
	if result.UserID != requestingUserID {
		return domain.ResultDetail{}, domain.ErrForbidden
	}

	quiz, err := s.quizzes.GetQuiz(ctx, result.QuizID)
	if err != nil {
		return domain.ResultDetail{}, err
	}

	return domain.ResultDetail{
		Result:      result,
		Quiz:        quiz,
		UserAnswers: result.Answers,
	}, nil
}

// ListResults returns a user's results, most recent first.
func (s *QuizService) ListResults(ctx context.Context, userID string) ([]domain.Result, error) {
	return s.results.ListByUser(ctx, userID)
}

// GetUserStats aggregates a user's result set on demand.
func (s *QuizService) GetUserStats(ctx context.Context, userID string) (domain.UserStats, error) {
	results, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	return ComputeStats(results), nil
}

// Dashboard bundles the profile, stats and recent activity views.
type Dashboard struct {
	User          domain.User      `json:"user"`
	Stats         domain.UserStats `json:"stats"`
	RecentResults []domain.Result  `json:"recent_results"`
}

// GetDashboard returns the user's stats plus their ten most recent results.
func (s *QuizService) GetDashboard(ctx context.Context, userID string) (Dashboard, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	stats, err := s.GetUserStats(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.results.ListByUserLimited(ctx, userID, 10)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{User: user, Stats: stats, RecentResults: recent}, nil
}

// GetLeaderboard returns the current ranked board from the configured source.
func (s *QuizService) GetLeaderboard(ctx context.Context) (domain.Leaderboard, error) {
	return s.leaderboard.Leaderboard(ctx)
}

// Feed exposes the live snapshot feed for the websocket transport.
func (s *QuizService) Feed() *LeaderboardFeed {
	return s.feed
}

func (s *QuizService) publishLeaderboard(ctx context.Context) {
	if s.feed == nil || !s.feed.HasSubscribers() {
		return
	}
	lb, err := s.leaderboard.Leaderboard(ctx)
	if err != nil {
		slog.Warn("leaderboard refresh for feed failed", "err", err)
		return
	}
	s.feed.Publish(lb)
}
