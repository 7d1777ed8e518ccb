package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tbellan/daisy/internal/protocol"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamReadTimeout  = 120 * time.Second
	streamReadLimit    = 1 << 20
)

// handleStream runs the websocket variant of the chat loop: one chat
// message in, one turn result (or in-band error) out, strictly in order.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Success: false, Error: "query parameter session_id is required", Code: "missing_session_id"})
		return
	}
	if _, err := s.sessions.Get(sessionID); err != nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Success: false, Error: "Invalid session", Code: "invalid_session"})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// A live stream counts as activity even before the first turn.
	_ = s.sessions.Touch(sessionID)

	if s.metrics != nil {
		s.metrics.RecordSessionEvent("ws_connected")
		defer s.metrics.RecordSessionEvent("ws_disconnected")
	}

	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.writeStream(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			})
			continue
		}

		switch msg := parsed.(type) {
		case protocol.ClientChat:
			turnID := uuid.NewString()
			s.writeStream(conn, protocol.TurnStart{
				Type:      protocol.TypeTurnStart,
				SessionID: sessionID,
				TurnID:    turnID,
			})

			res, err := s.orchestrator.Respond(r.Context(), sessionID, msg.Text, msg.Voice)
			if err != nil {
				code, detail := classifyTurnError(err)
				s.writeStream(conn, protocol.ErrorEvent{
					Type:   protocol.TypeErrorEvent,
					TurnID: turnID,
					Code:   code,
					Detail: detail,
				})
				continue
			}
			s.writeStream(conn, protocol.TurnResultEvent{
				Type:       protocol.TypeTurnResult,
				TurnID:     turnID,
				Success:    true,
				TurnResult: *res,
			})
		case protocol.ClientStop:
			s.orchestrator.StopSession(r.Context(), sessionID)
			return
		}
	}
}

func (s *Server) writeStream(conn *websocket.Conn, v any) {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	_ = conn.WriteJSON(v)
}
