package brain

import (
	"context"
	"fmt"
	"strings"
)

// MockAdapter is a deterministic offline generator used when no API key is
// configured and in tests.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) Model() string { return "mock" }

func (a *MockAdapter) Complete(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	utterance := lastUtterance(req.Prompt)
	if utterance == "" {
		return Response{Text: "Tell me more."}, nil
	}
	return Response{Text: Shape(fmt.Sprintf("That's interesting, tell me more about %s", utterance))}, nil
}

// lastUtterance pulls the trailing user text out of a turn prompt so mock
// replies echo what was actually said.
func lastUtterance(prompt string) string {
	idx := strings.LastIndex(prompt, "said: ")
	if idx < 0 {
		return strings.TrimSpace(prompt)
	}
	return strings.TrimSpace(prompt[idx+len("said: "):])
}
