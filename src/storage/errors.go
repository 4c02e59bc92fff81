package storage

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist for the
	// requesting owner. Ownership mismatches on tasks are reported as
	// ErrNotFound too, so callers cannot probe for other owners' data.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned by AppendMessage when the conversation
	// exists but belongs to a different owner.
	ErrForbidden = errors.New("forbidden")
)
