package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

type options struct {
	baseURL        string
	profile        string
	voiceID        string
	turns          int
	texts          []string
	interTurnDelay time.Duration
	turnTimeout    time.Duration
	verbose        bool
}

type turnResponse struct {
	Success    bool    `json:"success"`
	SessionID  string  `json:"session_id"`
	Text       string  `json:"text"`
	AudioURL   string  `json:"audio_url"`
	LLMLatency float64 `json:"llm_latency"`
	TTSLatency float64 `json:"tts_latency"`
	Error      string  `json:"error"`
	Code       string  `json:"code"`
}

type turnSample struct {
	TotalMS float64
	LLMMS   float64
	TTSMS   float64
}

var defaultUtterances = []string{
	"Reply in three words: how are you?",
	"Reply in three words: favorite hobby?",
	"Reply in three words: weekend plans?",
	"Reply in three words: best advice?",
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "voiceprobe: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "voiceprobe: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var cfg options
	var texts string

	flag.StringVar(&cfg.baseURL, "base-url", "http://127.0.0.1:8080", "service base URL")
	flag.StringVar(&cfg.profile, "profile", "daisy", "assistant profile id")
	flag.StringVar(&cfg.voiceID, "voice", "", "voice id override")
	flag.IntVar(&cfg.turns, "turns", 4, "number of chat turns")
	flag.StringVar(&texts, "texts", "", "comma-separated utterances (defaults to built-in set)")
	flag.DurationVar(&cfg.interTurnDelay, "inter-turn-delay", 200*time.Millisecond, "pause between turns")
	flag.DurationVar(&cfg.turnTimeout, "turn-timeout", 30*time.Second, "per-turn timeout")
	flag.BoolVar(&cfg.verbose, "v", false, "print every reply")
	flag.Parse()

	if cfg.turns <= 0 {
		return options{}, fmt.Errorf("turns must be positive")
	}
	cfg.texts = defaultUtterances
	if strings.TrimSpace(texts) != "" {
		cfg.texts = nil
		for _, t := range strings.Split(texts, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.texts = append(cfg.texts, t)
			}
		}
		if len(cfg.texts) == 0 {
			return options{}, fmt.Errorf("no usable texts")
		}
	}
	cfg.baseURL = strings.TrimRight(cfg.baseURL, "/")
	return cfg, nil
}

func run(cfg options) error {
	client := &http.Client{Timeout: cfg.turnTimeout}
	ctx := context.Background()

	start, err := postTurn(ctx, client, cfg.baseURL+"/voice/start", map[string]any{
		"profile": cfg.profile,
		"voice":   cfg.voiceID,
	})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if !start.Success {
		return fmt.Errorf("start session refused: %s (%s)", start.Error, start.Code)
	}
	fmt.Printf("session %s started, welcome: %q\n", start.SessionID, start.Text)

	samples := make([]turnSample, 0, cfg.turns)
	for i := 0; i < cfg.turns; i++ {
		text := cfg.texts[i%len(cfg.texts)]
		turnStart := time.Now()
		res, err := postTurn(ctx, client, cfg.baseURL+"/voice/chat", map[string]any{
			"session_id": start.SessionID,
			"text":       text,
			"voice":      cfg.voiceID,
		})
		if err != nil {
			return fmt.Errorf("turn %d: %w", i+1, err)
		}
		if !res.Success {
			return fmt.Errorf("turn %d refused: %s (%s)", i+1, res.Error, res.Code)
		}
		samples = append(samples, turnSample{
			TotalMS: float64(time.Since(turnStart).Milliseconds()),
			LLMMS:   res.LLMLatency,
			TTSMS:   res.TTSLatency,
		})
		if cfg.verbose {
			fmt.Printf("turn %d: %q -> %q (audio=%v)\n", i+1, text, res.Text, res.AudioURL != "")
		}
		time.Sleep(cfg.interTurnDelay)
	}

	if _, err := postTurn(ctx, client, cfg.baseURL+"/voice/stop", map[string]any{
		"session_id": start.SessionID,
	}); err != nil {
		return fmt.Errorf("stop session: %w", err)
	}

	fmt.Print(summarize(samples))
	return nil
}

func postTurn(ctx context.Context, client *http.Client, url string, body map[string]any) (turnResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return turnResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return turnResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return turnResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return turnResponse{}, err
	}
	var out turnResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return turnResponse{}, fmt.Errorf("decode %q: %w", string(data), err)
	}
	return out, nil
}

func summarize(samples []turnSample) string {
	if len(samples) == 0 {
		return "no turns completed\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "turns: %d\n", len(samples))
	for _, row := range []struct {
		name string
		pick func(turnSample) float64
	}{
		{"total", func(s turnSample) float64 { return s.TotalMS }},
		{"llm", func(s turnSample) float64 { return s.LLMMS }},
		{"tts", func(s turnSample) float64 { return s.TTSMS }},
	} {
		values := make([]float64, 0, len(samples))
		for _, s := range samples {
			values = append(values, row.pick(s))
		}
		sort.Float64s(values)
		fmt.Fprintf(&b, "%-5s p50=%.0fms p95=%.0fms max=%.0fms\n",
			row.name, percentile(values, 0.50), percentile(values, 0.95), values[len(values)-1])
	}
	return b.String()
}

// percentile expects sorted input.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
