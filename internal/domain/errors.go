// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyQuestion is returned when a work item has no question text.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyResponse is returned when a work item has no response text.
	ErrEmptyResponse = errors.New("response cannot be empty")

	// ErrBlankArity is returned when the number of (?) blanks in a question
	// does not match the number of responses provided.
	ErrBlankArity = errors.New("blank count does not match response count")

	// ErrInvalidTimestamp is returned when a clock offset is malformed.
	ErrInvalidTimestamp = errors.New("invalid timestamp format")

	// ErrNoTimestamp is returned for blank clock offsets so callers can
	// treat the offset as absent rather than malformed.
	ErrNoTimestamp = errors.New("no timestamp provided")

	// ErrDuplicateRecord is returned when a record with the same question
	// and response already exists in storage.
	ErrDuplicateRecord = errors.New("duplicate record")
)
