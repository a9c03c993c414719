package domain

import "errors"

var (
	// ErrNotFound is returned when a listing does not exist or has been
	// soft-deleted. A soft-deleted record is indistinguishable from an absent
	// one to callers.
	ErrNotFound = errors.New("listing not found")

	// ErrInvalidArgument covers malformed or out-of-range input: negative
	// limits, coordinates outside their valid range, unknown enum values.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrForbidden is returned when a caller tries to mutate a listing they
	// do not own.
	ErrForbidden = errors.New("action forbidden")

	// ErrBackendUnavailable wraps read/write failures of the persistence
	// backend. It is propagated unchanged, never masked by an empty result.
	ErrBackendUnavailable = errors.New("persistence backend unavailable")

	// ErrInconsistentSchema is returned when a record obtained through the
	// raw-query path cannot be correlated back to a typed record. Dropping
	// such a record silently would under-count, so it is a hard failure.
	ErrInconsistentSchema = errors.New("inconsistent schema between raw and typed query layers")
)
