package transcript

import (
	"context"
	"time"

	"github.com/tbellan/daisy/internal/session"
)

// Entry is one archived conversation turn.
type Entry struct {
	ID        int64        `json:"id"`
	SessionID string       `json:"session_id"`
	Role      session.Role `json:"role"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"created_at"`
}

// Store archives turns durably. Implementations must be safe for
// concurrent use.
type Store interface {
	SaveTurn(ctx context.Context, sessionID string, role session.Role, text string) error
	RecentBySession(ctx context.Context, sessionID string, limit int) ([]Entry, error)
	Close()
}
