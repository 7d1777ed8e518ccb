package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tbellan/daisy/internal/brain"
	"github.com/tbellan/daisy/internal/config"
	"github.com/tbellan/daisy/internal/httpapi"
	"github.com/tbellan/daisy/internal/observability"
	"github.com/tbellan/daisy/internal/session"
	"github.com/tbellan/daisy/internal/synth"
	"github.com/tbellan/daisy/internal/transcript"
	"github.com/tbellan/daisy/internal/voice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	transcripts, err := transcript.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("transcript store init failed: %v", err)
	}
	defer transcripts.Close()

	generator, err := brain.NewAdapter(brain.Config{
		Mode:    cfg.BrainMode,
		APIKey:  cfg.NvidiaAPIKey,
		BaseURL: cfg.NvidiaBaseURL,
		Model:   cfg.LLMModel,
	})
	if err != nil {
		log.Fatalf("brain adapter init failed: %v", err)
	}
	log.Printf("response generator: %s", generator.Model())

	speaker := buildSynthesizer(cfg)

	profiles := voice.DefaultProfiles(voice.GenerationFailurePolicy(cfg.GenerationFailurePolicy))
	if p, ok := profiles["daisy"]; ok && cfg.TTSVoiceID != "" {
		p.VoiceID = cfg.TTSVoiceID
	}
	if p, ok := profiles["malayalam"]; ok && cfg.MalayalamVoiceID != "" {
		p.VoiceID = cfg.MalayalamVoiceID
	}

	sessions := session.NewManager(cfg.SessionInactivityTimeout)

	orchestrator := voice.NewOrchestrator(voice.OrchestratorConfig{
		Sessions:    sessions,
		Brain:       generator,
		Synth:       speaker,
		Transcripts: transcripts,
		Metrics:     metrics,
		Profiles:    profiles,
		LLMTimeout:  cfg.LLMTimeout,
		TTSTimeout:  cfg.TTSTimeout,
	})

	sessions.SetExpireHook(func(sess *session.Session) {
		orchestrator.ForgetSession(sess.ID)
		metrics.RecordSessionEvent("expired")
		metrics.SetActiveSessions(sessions.ActiveCount())
	})

	api := httpapi.New(cfg, sessions, orchestrator, metrics, transcripts)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 5*time.Second)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}

// buildSynthesizer assembles the provider chain: configured HTTP backend
// first, optional fallback backend second, mock when nothing is configured.
func buildSynthesizer(cfg config.Config) synth.Synthesizer {
	cache := synth.NewCache(cfg.TTSCacheDir, cfg.MediaURLPrefix)

	var providers []synth.Synthesizer
	if cfg.TTSAPIURL != "" {
		providers = append(providers, synth.NewAPIProvider(synth.APIConfig{
			Name:    "coqui",
			BaseURL: cfg.TTSAPIURL,
			APIKey:  cfg.TTSAPIKey,
			ModelID: cfg.TTSModelID,
			Timeout: cfg.TTSTimeout,
		}, cache))
	}
	if cfg.TTSFallbackAPIURL != "" {
		providers = append(providers, synth.NewAPIProvider(synth.APIConfig{
			Name:    "fallback",
			BaseURL: cfg.TTSFallbackAPIURL,
			APIKey:  cfg.TTSFallbackAPIKey,
			ModelID: cfg.TTSFallbackModel,
			Timeout: cfg.TTSTimeout,
		}, cache))
	}
	if len(providers) == 0 {
		log.Printf("no TTS backend configured, using mock synthesizer")
		providers = append(providers, synth.NewMockProvider("mock"))
	}
	return synth.NewChain(providers...)
}
