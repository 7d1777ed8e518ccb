package synth

import "context"

// MockProvider records synthesis calls and returns a canned clip, or Err
// when set.
type MockProvider struct {
	ProviderName string
	URL          string
	Err          error
	Calls        []string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{ProviderName: name, URL: "/media/tts/tts_mock000000.mp3"}
}

func (p *MockProvider) Name() string {
	if p.ProviderName == "" {
		return "mock"
	}
	return p.ProviderName
}

func (p *MockProvider) Synthesize(ctx context.Context, text, voiceID string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	p.Calls = append(p.Calls, text)
	if p.Err != nil {
		return Result{}, p.Err
	}
	return Result{URL: p.URL, Provider: p.Name()}, nil
}
