package services

import "github.com/pkg/errors"

// Workflow error kinds. The API layer maps these onto HTTP statuses;
// everything else is treated as a storage failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	// ErrUnauthorized means no identity could be established (bad
	// credentials); ErrForbidden means the identity is known but the
	// operation is not allowed.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

func invalidInput(msg string) error {
	return errors.WithMessage(ErrInvalidInput, msg)
}

func notFound(msg string) error {
	return errors.WithMessage(ErrNotFound, msg)
}

func conflict(msg string) error {
	return errors.WithMessage(ErrConflict, msg)
}

func unauthorized(msg string) error {
	return errors.WithMessage(ErrUnauthorized, msg)
}

func forbidden(msg string) error {
	return errors.WithMessage(ErrForbidden, msg)
}
