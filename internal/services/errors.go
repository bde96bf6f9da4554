package services

import (
	"errors"
	"fmt"

	"shopauth/internal/repositories"
)

// Ожидаемые исходы: отдаются на HTTP-границу со стабильным статусом.
var (
	ErrNotFound           = repositories.ErrNotFound
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrCodeIncorrect      = errors.New("verification code is not valid")
	ErrCodeOwnerMismatch  = errors.New("verification code owner mismatch")
	ErrConflict           = repositories.ErrConflict
	ErrValidation         = errors.New("validation error")

	// ErrWrongTokenType и ErrTokenRevoked различимы, но errors.Is(err, ErrInvalidToken) == true.
	ErrWrongTokenType = fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	ErrTokenRevoked   = fmt.Errorf("%w: token has been revoked", ErrInvalidToken)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
