package anchor

import "errors"

var (
	// ErrInvalidRange reports malformed input to the selector builder
	// or a selector that violates its own invariants. Caller bug; not
	// retried.
	ErrInvalidRange = errors.New("anchor: invalid range")

	// ErrNotFound reports that every resolver tier was exhausted
	// without an acceptable match. Expected for heavily edited or
	// removed content; the caller decides whether to surface the
	// annotation as orphaned.
	ErrNotFound = errors.New("anchor: no acceptable match")

	// ErrOutOfBounds reports a resolved range that falls outside the
	// linearized map, which means the caller passed a stale
	// linearization. Treat as a defect, not a routine failure.
	ErrOutOfBounds = errors.New("anchor: range outside linearized map")
)
