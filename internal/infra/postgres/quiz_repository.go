package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizmaster-service/internal/domain"
)

// QuizRepository stores quiz definitions in Postgres. Questions are kept as a
// JSONB document so the ordered sequence round-trips losslessly, including
// correct-answer indices.
type QuizRepository struct {
	pool *pgxpool.Pool
}

func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	quiz.ID = uuid.NewString()
	quiz.CreatedAt = time.Now()

	_, err = r.pool.Exec(ctx,
		`INSERT INTO quizzes (id, title, description, difficulty, category, questions, total_questions, time_limit, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		quiz.ID, quiz.Title, quiz.Description, string(quiz.Difficulty), quiz.Category,
		questions, quiz.TotalQuestions, quiz.TimeLimit, quiz.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert quiz: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, title, description, difficulty, category, questions, total_questions, time_limit, created_at
		 FROM quizzes WHERE id=$1`, quizID)
	quiz, err := scanQuiz(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, err
}

func (r *QuizRepository) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, difficulty, category, questions, total_questions, time_limit, created_at
		 FROM quizzes ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%w: list quizzes: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list quizzes: %v", domain.ErrStorage, err)
	}
	return quizzes, nil
}

func scanQuiz(row pgx.Row) (domain.Quiz, error) {
	var (
		quiz       domain.Quiz
		difficulty string
		questions  []byte
	)
	err := row.Scan(&quiz.ID, &quiz.Title, &quiz.Description, &difficulty, &quiz.Category,
		&questions, &quiz.TotalQuestions, &quiz.TimeLimit, &quiz.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, err
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: scan quiz: %v", domain.ErrStorage, err)
	}
	quiz.Difficulty = domain.Difficulty(difficulty)
	if err := json.Unmarshal(questions, &quiz.Questions); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	return quiz, nil
}
