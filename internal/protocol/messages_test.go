package protocol

import (
	"errors"
	"testing"
)

func TestParseClientMessageChat(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"type":"chat","text":"hello","voice":"Ana Florence"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	chat, ok := msg.(ClientChat)
	if !ok {
		t.Fatalf("message type = %T, want ClientChat", msg)
	}
	if chat.Text != "hello" || chat.Voice != "Ana Florence" {
		t.Fatalf("unexpected chat message: %+v", chat)
	}
}

func TestParseClientMessageStop(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"type":"stop"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	if _, ok := msg.(ClientStop); !ok {
		t.Fatalf("message type = %T, want ClientStop", msg)
	}
}

func TestParseClientMessageAllowsEmptyChatText(t *testing.T) {
	// Blank input is a turn-level error, not a protocol error.
	msg, err := ParseClientMessage([]byte(`{"type":"chat","text":""}`))
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	if _, ok := msg.(ClientChat); !ok {
		t.Fatalf("message type = %T, want ClientChat", msg)
	}
}

func TestParseClientMessageRejectsUnknownType(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{"type":"dance"}`)); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestParseClientMessageRejectsGarbage(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{not json`)); err == nil {
		t.Fatalf("expected envelope error")
	}
}
