package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizmaster-service/internal/domain"
)

// UserRepository stores accounts in Postgres.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert user: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (domain.User, error) {
	return r.getBy(ctx, `WHERE id=$1`, userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getBy(ctx, `WHERE email=$1`, email)
}

func (r *UserRepository) getBy(ctx context.Context, where string, arg any) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users `+where,
		arg).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: load user: %v", domain.ErrStorage, err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name=$2, password_hash=$3, updated_at=$4 WHERE id=$1`,
		user.ID, user.Name, user.PasswordHash, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: update user: %v", domain.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan user: %v", domain.ErrStorage, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list users: %v", domain.ErrStorage, err)
	}
	return users, nil
}
