package session

import (
	"context"
	"testing"
	"time"
)

func TestManagerCreateGetEnd(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("", "daisy", "Ana Florence")
	if s.ID == "" {
		t.Fatalf("session ID should not be empty")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ProfileID != "daisy" || got.VoiceID != "Ana Florence" || got.Status != StatusActive {
		t.Fatalf("unexpected session state: %+v", got)
	}

	ended, err := m.End(s.ID)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if ended.Status != StatusEnded {
		t.Fatalf("ended status = %q, want %q", ended.Status, StatusEnded)
	}
}

func TestManagerCreateKeepsSuppliedID(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("interview-42", "daisy", "")
	if s.ID != "interview-42" {
		t.Fatalf("ID = %q, want %q", s.ID, "interview-42")
	}
}

func TestManagerEndIsIdempotent(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("", "daisy", "")

	if _, err := m.End(s.ID); err != nil {
		t.Fatalf("first End() error = %v", err)
	}
	ended, err := m.End(s.ID)
	if err != nil {
		t.Fatalf("second End() error = %v", err)
	}
	if ended.Status != StatusEnded {
		t.Fatalf("status = %q, want %q", ended.Status, StatusEnded)
	}
}

func TestManagerCommitTurnsAppendsInOrder(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("", "daisy", "")

	err := m.CommitTurns(s.ID,
		Turn{Role: RoleUser, Text: "I love hiking"},
		Turn{Role: RoleAssistant, Text: "Nice, where do you usually go?"},
	)
	if err != nil {
		t.Fatalf("CommitTurns() error = %v", err)
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(got.History))
	}
	if got.History[0].Role != RoleUser || got.History[1].Role != RoleAssistant {
		t.Fatalf("history order wrong: %+v", got.History)
	}
	if got.History[0].CreatedAt.IsZero() {
		t.Fatalf("CreatedAt should be stamped")
	}
}

func TestManagerCommitTurnsRejectsEndedSession(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("", "daisy", "")
	if _, err := m.End(s.ID); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	err := m.CommitTurns(s.ID, Turn{Role: RoleUser, Text: "hello"})
	if err != ErrEnded {
		t.Fatalf("CommitTurns() error = %v, want ErrEnded", err)
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.History) != 0 {
		t.Fatalf("history length = %d, want 0", len(got.History))
	}
}

func TestManagerGetReturnsClone(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("", "daisy", "")
	if err := m.CommitTurns(s.ID, Turn{Role: RoleUser, Text: "original"}); err != nil {
		t.Fatalf("CommitTurns() error = %v", err)
	}

	first, _ := m.Get(s.ID)
	first.History[0].Text = "mutated"

	second, _ := m.Get(s.ID)
	if second.History[0].Text != "original" {
		t.Fatalf("registry state leaked through clone: %+v", second.History)
	}
}

func TestManagerJanitorExpiresInactive(t *testing.T) {
	m := NewManager(30 * time.Millisecond)
	s := m.Create("", "daisy", "")

	var expired []*Session
	done := make(chan struct{})
	m.SetExpireHook(func(sess *Session) {
		expired = append(expired, sess)
		close(done)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartJanitor(ctx, 10*time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("janitor did not expire the session")
	}

	if _, err := m.Get(s.ID); err != ErrNotFound {
		t.Fatalf("Get() after expiry error = %v, want ErrNotFound", err)
	}
	if len(expired) != 1 || expired[0].Status != StatusEnded {
		t.Fatalf("expire hook got %+v", expired)
	}
}

func TestManagerRemove(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("", "daisy", "")

	if !m.Remove(s.ID) {
		t.Fatalf("Remove() = false, want true")
	}
	if m.Remove(s.ID) {
		t.Fatalf("second Remove() = true, want false")
	}
	if _, err := m.Get(s.ID); err != ErrNotFound {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}
