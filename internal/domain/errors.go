package domain

import "errors"

var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("unique constraint violated")

	// ErrAllocationOverflow is returned when an allocation upsert would push a
	// dev past 100% for the week across allocation types.
	ErrAllocationOverflow = errors.New("allocation exceeds 100% for the week")
)
