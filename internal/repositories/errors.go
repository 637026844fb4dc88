package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Callers match
// them with errors.Is; the concrete messages wrap these with context.
var (
	// ErrNotFound is returned when the referenced row does not exist for
	// the given owner.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername and ErrDuplicateEmail report which account
	// field collided (case-insensitive).
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")

	// ErrDuplicateEntry reports that the seat tuple is already in the
	// user's shortlist.
	ErrDuplicateEntry = errors.New("entry already in shortlist")

	// ErrAtTop and ErrAtBottom report a move that has nowhere to go.
	// They are reasons, not faults.
	ErrAtTop    = errors.New("entry is already at the top")
	ErrAtBottom = errors.New("entry is already at the bottom")
)
