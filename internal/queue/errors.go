package queue

import "errors"

// Common errors returned by the queue.
var (
	// ErrDuplicateEntry is returned when an identical payload was enqueued
	// within the dedup window and is still live.
	ErrDuplicateEntry = errors.New("identical entry already queued")

	// ErrQueueCorrupt is returned when the queue file exists but cannot be
	// parsed. Callers should log it and treat the queue as empty rather
	// than crash; the queue holds recoverable UI-facing state only.
	ErrQueueCorrupt = errors.New("queue file is corrupt")

	// ErrEntryNotFound is returned when no entry has the requested ID.
	ErrEntryNotFound = errors.New("queue entry not found")

	// ErrInvalidTransition is returned when a status change is requested
	// that the pending → processing → completed/error lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
)
