package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tbellan/daisy/internal/reliability"
)

const defaultSynthesisTimeout = 15 * time.Second

// APIConfig describes one HTTP text-to-speech backend.
type APIConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	ModelID string
	Timeout time.Duration
}

// APIProvider calls a Coqui-style text-to-speech HTTP endpoint and caches
// the returned clip on disk.
type APIProvider struct {
	cfg    APIConfig
	cache  *Cache
	client *http.Client
}

func NewAPIProvider(cfg APIConfig, cache *Cache) *APIProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSynthesisTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &APIProvider{
		cfg:    cfg,
		cache:  cache,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *APIProvider) Name() string { return p.cfg.Name }

type synthesisRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
	ModelID string `json:"model_id"`
}

func (p *APIProvider) Synthesize(ctx context.Context, text, voiceID string) (Result, error) {
	key := p.cache.Key(text, voiceID)
	if url := p.cache.Lookup(key); url != "" {
		return Result{URL: url, Provider: p.cfg.Name, Cached: true}, nil
	}

	body, err := json.Marshal(synthesisRequest{Text: text, VoiceID: voiceID, ModelID: p.cfg.ModelID})
	if err != nil {
		return Result{}, fmt.Errorf("encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/text-to-speech", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	if p.cfg.APIKey != "" {
		req.Header.Set("xi-api-key", p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, &ProviderError{Provider: p.cfg.Name, Retryable: true, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, &ProviderError{
			Provider:  p.cfg.Name,
			Status:    resp.StatusCode,
			Retryable: reliability.IsRetryableHTTPStatus(resp.StatusCode),
			Detail:    strings.TrimSpace(string(detail)),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &ProviderError{Provider: p.cfg.Name, Retryable: true, Detail: err.Error()}
	}
	if len(audio) < minAudioBytes {
		return Result{}, &ProviderError{
			Provider: p.cfg.Name,
			Detail:   fmt.Sprintf("truncated audio payload (%d bytes)", len(audio)),
		}
	}

	url, err := p.cache.Store(key, audio)
	if err != nil {
		return Result{}, fmt.Errorf("store synthesized clip: %w", err)
	}
	return Result{URL: url, Provider: p.cfg.Name}, nil
}
