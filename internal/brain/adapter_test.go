package brain

import (
	"context"
	"strings"
	"testing"
)

func TestNewAdapterModes(t *testing.T) {
	if _, err := NewAdapter(Config{Mode: "nvidia"}); err != ErrMissingAPIKey {
		t.Fatalf("nvidia without key error = %v, want ErrMissingAPIKey", err)
	}

	a, err := NewAdapter(Config{Mode: "nvidia", APIKey: "nvapi-test"})
	if err != nil {
		t.Fatalf("NewAdapter(nvidia) error = %v", err)
	}
	if a.Model() != DefaultModel {
		t.Fatalf("model = %q, want %q", a.Model(), DefaultModel)
	}

	a, err = NewAdapter(Config{Mode: "auto"})
	if err != nil {
		t.Fatalf("NewAdapter(auto) error = %v", err)
	}
	if _, ok := a.(*MockAdapter); !ok {
		t.Fatalf("auto without key should yield mock, got %T", a)
	}

	if _, err := NewAdapter(Config{Mode: "quantum"}); err == nil {
		t.Fatalf("expected error for unsupported mode")
	}
}

func TestMockAdapterEchoesUtterance(t *testing.T) {
	a := NewMockAdapter()
	resp, err := a.Complete(context.Background(), Request{
		Prompt: "Previous conversation:\nUser: hi\n\nCandidate just said: I started climbing",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(resp.Text, "I started climbing") {
		t.Fatalf("reply %q should echo the utterance", resp.Text)
	}
}

func TestMockAdapterHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMockAdapter().Complete(ctx, Request{Prompt: "hello"}); err == nil {
		t.Fatalf("expected context error")
	}
}
