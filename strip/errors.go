package strip

import "errors"

var (
	// ErrNoFields is returned when no field names are configured for removal.
	ErrNoFields = errors.New("no fields configured for removal")
)
