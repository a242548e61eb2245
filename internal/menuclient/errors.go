package menuclient

import "github.com/pkg/errors"

// Failure kinds of a single tier. They are never surfaced by Fetch: each
// one just moves the pipeline to the next tier.
var (
	// ErrBadShape reports a response that is not array-shaped menu data.
	ErrBadShape = errors.New("menuclient: payload does not look like a menu")

	// ErrEmptyCache reports an absent or empty cached snapshot.
	ErrEmptyCache = errors.New("menuclient: no cached menu")
)
