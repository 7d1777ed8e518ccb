package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Chain tries each provider in order and returns the first clip produced.
type Chain struct {
	providers []Synthesizer
}

func NewChain(providers ...Synthesizer) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (c *Chain) Synthesize(ctx context.Context, text, voiceID string) (Result, error) {
	if len(c.providers) == 0 {
		return Result{}, fmt.Errorf("no synthesis providers configured")
	}

	var failures []error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		res, err := p.Synthesize(ctx, text, voiceID)
		if err == nil {
			return res, nil
		}
		failures = append(failures, fmt.Errorf("%s: %w", p.Name(), err))
	}
	return Result{}, fmt.Errorf("all synthesis providers failed: %w", errors.Join(failures...))
}
