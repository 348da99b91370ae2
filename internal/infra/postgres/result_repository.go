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

// ResultRepository stores immutable result rows in Postgres. The quiz_results
// table carries real foreign keys with ON DELETE CASCADE to both parents, so
// a result for a missing user or quiz is rejected by the database and
// surfaces as domain.ErrStorage.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

const resultColumns = `r.id, r.user_id, r.quiz_id, q.title, r.score, r.total_questions, r.percentage, r.answers, r.time_taken, r.attempted_at`

func (r *ResultRepository) Create(ctx context.Context, result *domain.Result) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	result.ID = uuid.NewString()
	result.AttemptedAt = time.Now()

	// Single-statement insert; either the whole row commits or nothing does.
	_, err = r.pool.Exec(ctx,
		`INSERT INTO quiz_results (id, user_id, quiz_id, score, total_questions, percentage, answers, time_taken, attempted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		result.ID, result.UserID, result.QuizID, result.Score, result.TotalQuestions,
		result.Percentage, answers, result.TimeTaken, result.AttemptedAt)
	if err != nil {
		return fmt.Errorf("%w: insert result: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *ResultRepository) GetByID(ctx context.Context, resultID string) (domain.Result, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM quiz_results r JOIN quizzes q ON q.id = r.quiz_id WHERE r.id=$1`,
		resultID)
	result, err := scanResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Result{}, domain.ErrResultNotFound
	}
	return result, err
}

func (r *ResultRepository) ListByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	return r.ListByUserLimited(ctx, userID, 0)
}

func (r *ResultRepository) ListByUserLimited(ctx context.Context, userID string, limit int) ([]domain.Result, error) {
	query := `SELECT ` + resultColumns + `
		 FROM quiz_results r JOIN quizzes q ON q.id = r.quiz_id
		 WHERE r.user_id=$1 ORDER BY r.attempted_at DESC, r.seq DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list results: %v", domain.ErrStorage, err)
	}
	defer rows.Close()
	return collectResults(rows)
}

func (r *ResultRepository) ListGroupedByUser(ctx context.Context) (map[string][]domain.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+`
		 FROM quiz_results r JOIN quizzes q ON q.id = r.quiz_id
		 ORDER BY r.user_id, r.attempted_at DESC, r.seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list results: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	results, err := collectResults(rows)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]domain.Result)
	for _, result := range results {
		grouped[result.UserID] = append(grouped[result.UserID], result)
	}
	return grouped, nil
}

func collectResults(rows pgx.Rows) ([]domain.Result, error) {
	var results []domain.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list results: %v", domain.ErrStorage, err)
	}
	return results, nil
}

func scanResult(row pgx.Row) (domain.Result, error) {
	var (
		result  domain.Result
		answers []byte
	)
	err := row.Scan(&result.ID, &result.UserID, &result.QuizID, &result.QuizTitle,
		&result.Score, &result.TotalQuestions, &result.Percentage, &answers,
		&result.TimeTaken, &result.AttemptedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Result{}, err
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: scan result: %v", domain.ErrStorage, err)
	}
	if err := json.Unmarshal(answers, &result.Answers); err != nil {
		return domain.Result{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	return result, nil
}
