package httpapi

import (
	"github.com/tbellan/daisy/internal/transcript"
	"github.com/tbellan/daisy/internal/voice"
)

type startRequest struct {
	SessionID string `json:"session_id"`
	Profile   string `json:"profile"`
	Voice     string `json:"voice"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Voice     string `json:"voice"`
}

type stopRequest struct {
	SessionID string `json:"session_id"`
}

// turnResponse is the wire shape of one successful turn.
type turnResponse struct {
	Success bool `json:"success"`
	voice.TurnResult
	SessionActive bool `json:"session_active"`
}

// errorResponse reports turn failures in-band: the HTTP status stays 200
// and success=false carries the outcome, so voice clients handle every
// reply through one decode path.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

type stopResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type transcriptResponse struct {
	Success   bool               `json:"success"`
	SessionID string             `json:"session_id"`
	Entries   []transcript.Entry `json:"entries"`
}

type statusResponse struct {
	Success        bool   `json:"success"`
	ActiveSessions int    `json:"active_sessions"`
	SystemStatus   string `json:"system_status"`
	LLMModel       string `json:"llm_model"`
	TTSProvider    string `json:"tts_provider"`
}
