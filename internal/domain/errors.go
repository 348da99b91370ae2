package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrResultNotFound indicates the requested result does not exist.
	ErrResultNotFound = errors.New("result not found")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates the signup email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden is returned when a caller asks for a result they do not own.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation covers malformed or missing request fields.
	ErrValidation = errors.New("validation failed")
	// ErrStorage wraps persistence failures, including foreign-key violations.
	ErrStorage = errors.New("storage failure")
)
