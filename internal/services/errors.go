package services

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned for every authentication failure.
// Unknown username and wrong password are deliberately indistinguishable
// at this layer.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports user input that fails a stated constraint. It is
// always recoverable and never logged as a system fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
