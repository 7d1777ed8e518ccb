package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings, sourced from environment variables.
type Config struct {
	BindAddr                 string
	MetricsNamespace         string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	AllowAnyOrigin           bool

	BrainMode     string
	NvidiaAPIKey  string
	NvidiaBaseURL string
	LLMModel      string
	LLMTimeout    time.Duration

	TTSAPIURL         string
	TTSAPIKey         string
	TTSVoiceID        string
	TTSModelID        string
	TTSFallbackAPIURL string
	TTSFallbackAPIKey string
	TTSFallbackModel  string
	TTSTimeout        time.Duration
	TTSCacheDir       string
	MediaURLPrefix    string
	MalayalamVoiceID  string

	GenerationFailurePolicy string

	DatabaseURL string
}

func Load() (Config, error) {
	cfg := Config{
		BindAddr:                 envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:         envOrDefault("APP_METRICS_NAMESPACE", "daisy"),
		ShutdownTimeout:          durationFromEnv("APP_SHUTDOWN_TIMEOUT", 15*time.Second),
		SessionInactivityTimeout: durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", 2*time.Minute),
		AllowAnyOrigin:           boolFromEnv("APP_ALLOW_ANY_ORIGIN", false),

		BrainMode:     envOrDefault("BRAIN_MODE", "auto"),
		NvidiaAPIKey:  strings.TrimSpace(os.Getenv("NVIDIA_API_KEY")),
		NvidiaBaseURL: strings.TrimSpace(os.Getenv("NVIDIA_BASE_URL")),
		LLMModel:      strings.TrimSpace(os.Getenv("LLM_MODEL")),
		LLMTimeout:    durationFromEnv("LLM_TIMEOUT", 10*time.Second),

		TTSAPIURL:         strings.TrimSpace(os.Getenv("TTS_API_URL")),
		TTSAPIKey:         strings.TrimSpace(os.Getenv("TTS_API_KEY")),
		TTSVoiceID:        envOrDefault("TTS_VOICE_ID", "Ana Florence"),
		TTSModelID:        envOrDefault("TTS_MODEL_ID", "coqui"),
		TTSFallbackAPIURL: strings.TrimSpace(os.Getenv("TTS_FALLBACK_API_URL")),
		TTSFallbackAPIKey: strings.TrimSpace(os.Getenv("TTS_FALLBACK_API_KEY")),
		TTSFallbackModel:  envOrDefault("TTS_FALLBACK_MODEL_ID", "edge"),
		TTSTimeout:        durationFromEnv("TTS_TIMEOUT", 15*time.Second),
		TTSCacheDir:       envOrDefault("TTS_CACHE_DIR", "media/tts"),
		MediaURLPrefix:    envOrDefault("MEDIA_URL_PREFIX", "/media/tts"),
		MalayalamVoiceID:  envOrDefault("MALAYALAM_TTS_VOICE", "Malayalam IndicF5"),

		GenerationFailurePolicy: strings.TrimSpace(os.Getenv("VOICE_GENERATION_FAILURE_POLICY")),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT too low: %s", cfg.SessionInactivityTimeout)
	}
	switch cfg.GenerationFailurePolicy {
	case "", "propagate", "fallback_text":
	default:
		return Config{}, fmt.Errorf("invalid VOICE_GENERATION_FAILURE_POLICY %q", cfg.GenerationFailurePolicy)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func boolFromEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
