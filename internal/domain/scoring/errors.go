package scoring

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is the root kind for inputs a scorer refuses to score.
var ErrMalformedInput = errors.New("malformed input")

// Specific malformed-input kinds. All of them satisfy errors.Is(err, ErrMalformedInput).
var (
	ErrMalformedDate     = fmt.Errorf("%w: date", ErrMalformedInput)
	ErrMalformedClock    = fmt.Errorf("%w: kickoff time", ErrMalformedInput)
	ErrInvalidFormResult = fmt.Errorf("%w: form result", ErrMalformedInput)
	ErrFormTooLong       = fmt.Errorf("%w: form too long", ErrMalformedInput)
)
