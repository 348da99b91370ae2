package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"quizmaster-service/internal/domain"
)

const minPasswordLength = 6

var (
	// ErrTokenExpired is returned when a presented token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers malformed, unsigned or tampered tokens.
	ErrTokenInvalid = errors.New("invalid token")
)

// UserStore is the persistence the auth service needs; the repository
// implementations in infra satisfy it.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// Service handles registration, login and token verification. The quiz core
// never sees any of this; it only receives the verified user ID.
type Service struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(users UserStore, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 30 * 24 * time.Hour
	}
	return &Service{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Register creates an account and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, name, email, password string) (domain.User, string, error) {
	if name == "" || email == "" || password == "" {
		return domain.User{}, "", fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return domain.User{}, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, &user); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the account with a fresh token.
// A missing account and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	if email == "" || password == "" {
		return domain.User{}, "", fmt.Errorf("%w: missing email or password", domain.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, "", domain.ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// GetUser loads an account by its verified ID.
func (s *Service) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfileInput carries the optional profile changes; nil means unchanged.
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

// UpdateProfile applies name and/or password changes to an account.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// VerifyToken validates a bearer token and returns the user ID it carries.
func (s *Service) VerifyToken(token string) (string, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !parsed.Valid || claims.UserID == "" {
		return "", ErrTokenInvalid
	}
	return claims.UserID, nil
}

func (s *Service) issueToken(userID string) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
