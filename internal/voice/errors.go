package voice

import "errors"

// ErrEmptyInput rejects blank or whitespace-only user text before any
// provider is called.
var ErrEmptyInput = errors.New("no text provided")

// GenerationError marks a turn that failed because the response generator
// did. The user turn is not committed, so history is exactly as it was
// before the call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "response generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }
