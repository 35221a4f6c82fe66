package session

import "errors"

var (
	// ErrEmptyConfiguration is returned when the quota map selected zero
	// subjects or zero total quantity, so no session can start.
	ErrEmptyConfiguration = errors.New("quota configuration selected no questions")

	// ErrReadOnlyState is returned for answer writes while reviewing. This
	// should not happen through the HTTP surface and indicates a client bug.
	ErrReadOnlyState = errors.New("session is reviewing and read-only")

	// ErrInvalidIndex is returned for out-of-range question indices.
	ErrInvalidIndex = errors.New("index out of session range")

	// ErrNoActiveSession is returned when a user has no session (the
	// configuring state).
	ErrNoActiveSession = errors.New("no active session")
)
