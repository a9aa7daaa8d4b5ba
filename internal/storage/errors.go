package storage

import "errors"

var (
	// ErrNotFound is returned when an id does not resolve to a row.
	ErrNotFound = errors.New("not found")
	// ErrEmpty is returned by random selection over an empty matching set.
	// It is not an error condition for callers, just "nothing to pick".
	ErrEmpty = errors.New("no matching rows")
	// ErrValidation is returned when a required field is missing.
	ErrValidation = errors.New("validation failed")
)
