package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q", cfg.BindAddr)
	}
	if cfg.SessionInactivityTimeout != 2*time.Minute {
		t.Fatalf("SessionInactivityTimeout = %s", cfg.SessionInactivityTimeout)
	}
	if cfg.TTSVoiceID != "Ana Florence" {
		t.Fatalf("TTSVoiceID = %q", cfg.TTSVoiceID)
	}
	if cfg.BrainMode != "auto" {
		t.Fatalf("BrainMode = %q", cfg.BrainMode)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_BIND_ADDR", ":9999")
	t.Setenv("LLM_TIMEOUT", "3s")
	t.Setenv("VOICE_GENERATION_FAILURE_POLICY", "fallback_text")
	t.Setenv("APP_ALLOW_ANY_ORIGIN", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9999" {
		t.Fatalf("BindAddr = %q", cfg.BindAddr)
	}
	if cfg.LLMTimeout != 3*time.Second {
		t.Fatalf("LLMTimeout = %s", cfg.LLMTimeout)
	}
	if cfg.GenerationFailurePolicy != "fallback_text" {
		t.Fatalf("GenerationFailurePolicy = %q", cfg.GenerationFailurePolicy)
	}
	if !cfg.AllowAnyOrigin {
		t.Fatalf("AllowAnyOrigin should be true")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("APP_SESSION_INACTIVITY_TIMEOUT", "1s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for tiny inactivity timeout")
	}

	t.Setenv("APP_SESSION_INACTIVITY_TIMEOUT", "2m")
	t.Setenv("VOICE_GENERATION_FAILURE_POLICY", "shrug")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid failure policy")
	}
}

func TestLoadIgnoresMalformedDurations(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "not-a-duration")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLMTimeout != 10*time.Second {
		t.Fatalf("LLMTimeout = %s, want default", cfg.LLMTimeout)
	}
}
