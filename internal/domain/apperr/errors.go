package apperr

import (
	"errors"
	"fmt"
)

// Error kinds shared by every layer. Wrap them with fmt.Errorf("%w: ...") to
// attach detail and match with errors.Is.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrAuthenticationFailed = errors.New("invalid credentials")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateIdentity    = errors.New("already exists")
	ErrStoreFailure         = errors.New("store failure")
)

var kinds = []error{
	ErrInvalidInput,
	ErrAuthenticationFailed,
	ErrUnauthenticated,
	ErrUnauthorized,
	ErrForbidden,
	ErrNotFound,
	ErrDuplicateIdentity,
	ErrStoreFailure,
}

// Invalid builds an ErrInvalidInput with a client-facing detail.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Store classifies err as a store failure unless it already carries a kind.
func Store(err error) error {
	if err == nil {
		return nil
	}
	if Classified(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreFailure, err)
}

// Classified reports whether err wraps one of the known kinds.
func Classified(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
