package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Request carries one prompt to the response generator. Prompt already
// embeds the bounded conversation context built by the orchestrator.
type Request struct {
	SystemPrompt string
	Prompt       string
}

// Response is the shaped assistant reply.
type Response struct {
	Text string
}

// Adapter generates one assistant reply per call. A single attempt, no
// internal fallback: callers decide what a generation failure means.
type Adapter interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Model() string
}

// ErrMissingAPIKey signals unusable generator credentials at startup.
var ErrMissingAPIKey = errors.New("nvidia api key is required")

// Config controls adapter construction.
type Config struct {
	Mode    string
	APIKey  string
	BaseURL string
	Model   string
}

// NewAdapter builds the configured response generator. Mode "nvidia" fails
// fast on missing credentials rather than degrading to a canned brain; a
// silent substitute would mislead users about which model is answering.
func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "nvidia":
		return NewNvidiaAdapter(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "mock":
		return NewMockAdapter(), nil
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewNvidiaAdapter(cfg.APIKey, cfg.BaseURL, cfg.Model)
		}
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported brain mode %q", cfg.Mode)
	}
}
