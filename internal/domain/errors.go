package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Data gaps (unknown biomarker, missing spec) are never
// errors; they surface as StatusNoData per the partial-failure policy. Only
// total resource unavailability escalates to the caller.
var (
	// ErrNormalizationUnavailable signals that the shared language model
	// failed to construct. Callers may fall back to case-folding-only
	// matching instead of failing the request.
	ErrNormalizationUnavailable = errors.New("normalization unavailable: language model failed to initialize")

	ErrEmptyKeywordSet = errors.New("empty keyword set")
)

// ValidationError represents input validation errors attached to a single
// field of the inbound payload.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
