package transcript

import (
	"context"
	"sync"
	"time"

	"github.com/tbellan/daisy/internal/session"
)

// InMemoryStore keeps transcripts in process memory. Used when no database
// is configured and in tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[string][]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string][]Entry)}
}

func (s *InMemoryStore) SaveTurn(ctx context.Context, sessionID string, role session.Role, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.entries[sessionID] = append(s.entries[sessionID], Entry{
		ID:        s.nextID,
		SessionID: sessionID,
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *InMemoryStore) RecentBySession(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.entries[sessionID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return append([]Entry(nil), entries...), nil
}

func (s *InMemoryStore) Close() {}
