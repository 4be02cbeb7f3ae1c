package core

import (
	"errors"
	"fmt"
)

// ValidationError reports bad client input. It is never produced after a side effect.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
