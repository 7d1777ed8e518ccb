package transcript

import "context"

// NewStore picks the archive backend: PostgreSQL when a database URL is
// configured, in-process memory otherwise.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if databaseURL == "" {
		return NewInMemoryStore(), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
