package gematria

import (
	"errors"
	"fmt"
)

var (
	// ErrInput is wrapped by every *InputError.
	ErrInput = errors.New("invalid gematria input")
	// ErrUnknownMethod is returned for identifiers outside the method set.
	ErrUnknownMethod = errors.New("unknown gematria method")
)

// InputError reports text the engine refuses to evaluate: invalid UTF-8 or
// more runes than the configured maximum.
type InputError struct {
	Reason string
	Length int // rune count of the rejected input, 0 for invalid encoding
	Max    int
}

func (e *InputError) Error() string {
	if e.Max > 0 && e.Length > e.Max {
		return fmt.Sprintf("gematria input: %s (%d > %d runes)", e.Reason, e.Length, e.Max)
	}
	return "gematria input: " + e.Reason
}

func (e *InputError) Unwrap() error { return ErrInput }
