package transcript

import (
	"context"
	"testing"

	"github.com/tbellan/daisy/internal/session"
)

func TestInMemoryStoreSaveAndRecent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	turns := []struct {
		role session.Role
		text string
	}{
		{session.RoleUser, "hello"},
		{session.RoleAssistant, "hi, what's up?"},
		{session.RoleUser, "not much"},
	}
	for _, turn := range turns {
		if err := s.SaveTurn(ctx, "s1", turn.role, turn.text); err != nil {
			t.Fatalf("SaveTurn() error = %v", err)
		}
	}
	if err := s.SaveTurn(ctx, "s2", session.RoleUser, "other session"); err != nil {
		t.Fatalf("SaveTurn() error = %v", err)
	}

	got, err := s.RecentBySession(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("RecentBySession() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Text != "hi, what's up?" || got[1].Text != "not much" {
		t.Fatalf("wrong entries: %+v", got)
	}

	all, err := s.RecentBySession(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("RecentBySession() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("entries = %d, want 3", len(all))
	}
}

func TestInMemoryStoreHonorsContext(t *testing.T) {
	s := NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.SaveTurn(ctx, "s1", session.RoleUser, "hello"); err == nil {
		t.Fatalf("expected context error")
	}
}
