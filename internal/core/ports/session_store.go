package ports

import (
	"context"
	"time"

	"github.com/domapp/portal/internal/core/domain"
)

// SessionStore is the external key-value store behind session cookies.
// Get returns domain.ErrSessionNotFound for unknown or expired IDs.
// Delete of an unknown ID is not an error.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
