// Package domain defines the study deck's entities and error kinds.
package domain

import "errors"

var (
	// ErrValidation is returned when required text is empty or no valid items remain.
	ErrValidation = errors.New("validation failed")

	// ErrFormat is returned when a stored document has the wrong shape.
	ErrFormat = errors.New("invalid document format")

	// ErrNotFound is returned when an operation references a week that was never set.
	ErrNotFound = errors.New("not found")

	// ErrIndex is returned for an out-of-range positional index.
	ErrIndex = errors.New("index out of range")
)
