package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrModerationRejected = errors.New("content rejected by moderation")
	ErrClassification     = errors.New("classification failed")
	ErrUpload             = errors.New("photo upload failed")
	ErrPersistence        = errors.New("report persistence failed")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrLifecycleUpdate    = errors.New("lifecycle update failed")
	ErrNotFound           = errors.New("report not found")
)

// ValidationError names the offending field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
