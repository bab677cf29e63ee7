package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotAuthenticated is returned when an operation requiring identity is
// invoked without one. No mutation is attempted in that case.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrSubmissionInFlight is returned when a submission starts while another
// one has not reached a terminal state yet.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level failures. It is resolved locally and
// never reaches the network layer.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
