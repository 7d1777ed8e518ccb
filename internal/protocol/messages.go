package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tbellan/daisy/internal/voice"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeClientChat MessageType = "chat"
	TypeClientStop MessageType = "stop"
	TypeTurnStart  MessageType = "turn_start"
	TypeTurnResult MessageType = "turn_result"
	TypeErrorEvent MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientChat carries one user utterance. Empty text is accepted here and
// rejected by the turn pipeline, which owns input validation.
type ClientChat struct {
	Type  MessageType `json:"type"`
	Text  string      `json:"text"`
	Voice string      `json:"voice,omitempty"`
}

type ClientStop struct {
	Type MessageType `json:"type"`
}

type TurnStart struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	TurnID    string      `json:"turn_id"`
}

type TurnResultEvent struct {
	Type    MessageType `json:"type"`
	TurnID  string      `json:"turn_id"`
	Success bool        `json:"success"`
	voice.TurnResult
}

type ErrorEvent struct {
	Type   MessageType `json:"type"`
	TurnID string      `json:"turn_id,omitempty"`
	Code   string      `json:"code"`
	Detail string      `json:"detail"`
}

func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientChat:
		var msg ClientChat
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeClientStop:
		var msg ClientStop
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
