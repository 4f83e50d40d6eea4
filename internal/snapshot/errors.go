package snapshot

import "errors"

// Decode errors. Returned errors wrap one of these with context.
var (
	// ErrMalformed indicates the input is not valid JSON.
	ErrMalformed = errors.New("snapshot: malformed JSON")

	// ErrShape indicates valid JSON that does not have the snapshot structure.
	ErrShape = errors.New("snapshot: unexpected shape")
)
