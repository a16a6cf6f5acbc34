package sqlite

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness constraint would be violated
	ErrDuplicate = errors.New("already exists")
)
