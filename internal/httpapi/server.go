package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tbellan/daisy/internal/config"
	"github.com/tbellan/daisy/internal/observability"
	"github.com/tbellan/daisy/internal/session"
	"github.com/tbellan/daisy/internal/transcript"
	"github.com/tbellan/daisy/internal/voice"
)

// Orchestrator is the turn pipeline the API fronts.
type Orchestrator interface {
	StartSession(ctx context.Context, sessionID, profileID, voiceID string) (*voice.TurnResult, error)
	Respond(ctx context.Context, sessionID, text, voiceOverride string) (*voice.TurnResult, error)
	StopSession(ctx context.Context, sessionID string) bool
	Describe() (model, ttsProvider string)
}

// TranscriptReader serves archived turns back to clients.
type TranscriptReader interface {
	RecentBySession(ctx context.Context, sessionID string, limit int) ([]transcript.Entry, error)
}

type Server struct {
	cfg          config.Config
	sessions     *session.Manager
	orchestrator Orchestrator
	metrics      *observability.Metrics
	transcripts  TranscriptReader
	upgrader     websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Manager, orchestrator Orchestrator, metrics *observability.Metrics, transcripts TranscriptReader) *Server {
	return &Server{
		cfg:          cfg,
		sessions:     sessions,
		orchestrator: orchestrator,
		metrics:      metrics,
		transcripts:  transcripts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only browser connections from the same origin may drive a
				// session unless explicitly opened up.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/voice/start", s.handleStart)
	r.Post("/voice/chat", s.handleChat)
	r.Post("/voice/stop", s.handleStop)
	r.Get("/voice/status", s.handleStatus)
	r.Get("/voice/latency", s.handleLatency)
	r.Get("/voice/transcript", s.handleTranscript)
	r.Get("/voice/stream", s.handleStream)

	mediaPrefix := strings.TrimRight(s.cfg.MediaURLPrefix, "/")
	if mediaPrefix == "" {
		mediaPrefix = "/media/tts"
	}
	r.Handle(mediaPrefix+"/*", http.StripPrefix(mediaPrefix+"/",
		http.FileServer(http.Dir(s.cfg.TTSCacheDir))))

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondTurnError(w, err)
		return
	}
	if strings.TrimSpace(req.Profile) == "" {
		req.Profile = "daisy"
	}

	res, err := s.orchestrator.StartSession(r.Context(), req.SessionID, req.Profile, req.Voice)
	if err != nil {
		respondTurnError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, turnResponse{Success: true, TurnResult: *res, SessionActive: true})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondTurnError(w, err)
		return
	}

	res, err := s.orchestrator.Respond(r.Context(), req.SessionID, req.Text, req.Voice)
	if err != nil {
		respondTurnError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, turnResponse{Success: true, TurnResult: *res, SessionActive: true})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	var req stopRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondTurnError(w, err)
		return
	}

	message := "Session ended"
	if !s.orchestrator.StopSession(r.Context(), req.SessionID) {
		message = "Session not found"
	}
	respondJSON(w, http.StatusOK, stopResponse{Success: true, Message: message})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	model, ttsProvider := s.orchestrator.Describe()
	respondJSON(w, http.StatusOK, statusResponse{
		Success:        true,
		ActiveSessions: s.sessions.ActiveCount(),
		SystemStatus:   "ready",
		LLMModel:       model,
		TTSProvider:    ttsProvider,
	})
}

func (s *Server) handleLatency(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.metrics.SnapshotTurnStages())
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondJSON(w, http.StatusOK, errorResponse{Success: false, Error: "session_id is required", Code: "missing_session_id"})
		return
	}
	if s.transcripts == nil {
		respondJSON(w, http.StatusOK, errorResponse{Success: false, Error: "transcript archive not configured", Code: "unavailable"})
		return
	}

	limit := 20
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondJSON(w, http.StatusOK, errorResponse{Success: false, Error: "limit must be a positive integer", Code: "invalid_limit"})
			return
		}
		limit = n
	}

	entries, err := s.transcripts.RecentBySession(r.Context(), sessionID, limit)
	if err != nil {
		respondTurnError(w, err)
		return
	}
	if entries == nil {
		entries = []transcript.Entry{}
	}
	respondJSON(w, http.StatusOK, transcriptResponse{Success: true, SessionID: sessionID, Entries: entries})
}

// respondTurnError maps pipeline failures onto the in-band error shape.
func respondTurnError(w http.ResponseWriter, err error) {
	code, message := classifyTurnError(err)
	respondJSON(w, http.StatusOK, errorResponse{Success: false, Error: message, Code: code})
}

func classifyTurnError(err error) (code, message string) {
	var genErr *voice.GenerationError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return "invalid_session", "Invalid session"
	case errors.Is(err, session.ErrEnded):
		return "invalid_state", "Session not active"
	case errors.Is(err, voice.ErrEmptyInput):
		return "empty_input", "No text provided"
	case errors.As(err, &genErr):
		return "generation_failed", genErr.Error()
	default:
		return "internal_error", err.Error()
	}
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
