package synth

import (
	"context"
	"fmt"
)

// Result describes one successfully produced audio clip. URL is the public
// path clients fetch the clip from.
type Result struct {
	URL      string
	Provider string
	Cached   bool
}

// Synthesizer turns reply text into a playable audio clip.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) (Result, error)
	Name() string
}

// ProviderError reports a failed synthesis attempt against one provider.
type ProviderError struct {
	Provider  string
	Status    int
	Retryable bool
	Detail    string
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Detail)
}
