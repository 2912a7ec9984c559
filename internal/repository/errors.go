package repository

import "errors"

var (
	// ErrActiveFollowUpExists is returned by Create when the lead already has
	// a PENDING or PROCESSING follow-up. Callers treat it as a no-op.
	ErrActiveFollowUpExists = errors.New("lead already has an active follow-up")

	// ErrInvalidTransition is returned when a terminal transition targets a
	// row that is not in the expected preceding state. It indicates a lost
	// race or a logic bug and is surfaced, not retried.
	ErrInvalidTransition = errors.New("follow-up is not in the expected state")

	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
)
