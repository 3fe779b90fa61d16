package storage

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCursor is returned when a pagination cursor cannot be
	// decoded. Callers resuming on behalf of a client surface this as a
	// bad request; internal callers may treat it as "start from the top".
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrCollision is returned when a uniqueness constraint rejects a write.
	ErrCollision = errors.New("item already exists")

	// ErrUnavailable wraps transient backend failures. The read path
	// never retries internally; it propagates so the caller can decide.
	ErrUnavailable = errors.New("storage unavailable")
)
