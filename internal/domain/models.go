package domain

import "time"

// Difficulty tags a quiz. Unknown values normalize to DifficultyMedium.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Normalize() Difficulty {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d
	default:
		return DifficultyMedium
	}
}

// Question is a single multiple-choice question. Its ordinal position is its
// slice index; CorrectAnswer is a zero-based index into Options.
type Question struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Quiz is an ordered sequence of questions plus catalog metadata. Quizzes are
// immutable after creation.
type Quiz struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Difficulty     Difficulty `json:"difficulty"`
	Category       string     `json:"category"`
	Questions      []Question `json:"questions"`
	TotalQuestions int        `json:"total_questions"`
	TimeLimit      *int       `json:"time_limit,omitempty"` // seconds
	CreatedAt      time.Time  `json:"created_at"`
}

// RedactedQuestion is the public view of a question, without the answer key.
type RedactedQuestion struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// RedactedQuiz is the public catalog view of a quiz.
type RedactedQuiz struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Difficulty     Difficulty         `json:"difficulty"`
	Category       string             `json:"category"`
	Questions      []RedactedQuestion `json:"questions"`
	TotalQuestions int                `json:"total_questions"`
	TimeLimit      *int               `json:"time_limit,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// Redacted strips correct-answer indices so the view can be served to any caller.
func (q Quiz) Redacted() RedactedQuiz {
	questions := make([]RedactedQuestion, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = RedactedQuestion{
			Prompt:  question.Prompt,
			Options: append([]string(nil), question.Options...),
		}
	}
	return RedactedQuiz{
		ID:             q.ID,
		Title:          q.Title,
		Description:    q.Description,
		Difficulty:     q.Difficulty,
		Category:       q.Category,
		Questions:      questions,
		TotalQuestions: q.TotalQuestions,
		TimeLimit:      q.TimeLimit,
		CreatedAt:      q.CreatedAt,
	}
}

// Submission is the transient input to a quiz attempt: option indices, one per
// question by position. It is consumed to produce a Result, never persisted.
type Submission struct {
	UserID    string
	QuizID    string
	Answers   []int
	TimeTaken *int // seconds, client-reported
}

// Result is the immutable record of one graded submission. Scores are never
// recomputed in place.
type Result struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	QuizID         string    `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title,omitempty"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	Answers        []int     `json:"-"`
	TimeTaken      *int      `json:"time_taken,omitempty"`
	AttemptedAt    time.Time `json:"attempted_at"`
}

// User owns its results; deleting a user cascades to them.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// UserStats is derived fresh from a user's result set on every request;
// nothing is cached or stored.
type UserStats struct {
	TotalQuizzes int     `json:"total_quizzes"`
	AverageScore float64 `json:"average_score"`
	BestScore    float64 `json:"best_score"`
	TotalPoints  int     `json:"total_points"`
}

// LeaderboardEntry is one ranked row; users with zero results never appear.
type LeaderboardEntry struct {
	Name         string  `json:"name"`
	TotalQuizzes int     `json:"total_quizzes"`
	AverageScore float64 `json:"average_score"`
	BestScore    float64 `json:"best_score"`
	TotalPoints  int     `json:"total_points"`
}

// Leaderboard is a timestamped snapshot of the ranked entries.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"leaderboard"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ResultDetail is the owner-only review of one attempt: the result, the full
// quiz including the answer key, and the answers exactly as submitted.
type ResultDetail struct {
	Result      Result `json:"result"`
	Quiz        Quiz   `json:"quiz"`
	UserAnswers []int  `json:"user_answers"`
}
