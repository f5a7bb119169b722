package domain

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist or has expired.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an operation contradicts the current state.
	ErrConflict = errors.New("conflict")
)

// ValidationError is a user-input problem. Message is shown to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// AsValidation unwraps err into a ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
