package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors distinguishing structurally-misbehaving model output from
// vocabulary violations. Both consume attempts from the same budget, but
// callers can tell them apart.
var (
	// ErrEmptyResponse means the model returned no text at all.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrMalformedResponse means the model text could not be parsed into
	// the expected structure (missing or mistyped required keys).
	ErrMalformedResponse = errors.New("malformed model response")
)

// ExhaustedError is returned when every drafting round produced only
// violations and the attempt budget ran out. Illegal carries the full
// accumulated list of illegal words and markers for diagnostics.
type ExhaustedError struct {
	Op       string
	Attempts int
	Illegal  []string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: vocabulary constraint not met after %d attempts (illegal: %s)",
		e.Op, e.Attempts, strings.Join(e.Illegal, ", "))
}
