package util

import "errors"

// Client errors (400).
var (
	ErrValidation            = errors.New("invalid request")
	ErrMissingRequiredChoice = errors.New("additional questions 9 and 10 are required")
	ErrInvalidChoice         = errors.New("invalid choice")
)

// Server-side errors.
var (
	ErrMissingConfiguration = errors.New("supplemental question metadata missing")
	ErrPersistenceConflict  = errors.New("persistence conflict")
	ErrAttemptExists        = errors.New("attempt already recorded")
)

// IsClientError reports whether err is the caller's fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrMissingRequiredChoice) ||
		errors.Is(err, ErrInvalidChoice)
}
