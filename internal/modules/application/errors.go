package application

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("application not found")
	ErrEmptyUpdate       = errors.New("no fields to update")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries field-level failures from payload validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
