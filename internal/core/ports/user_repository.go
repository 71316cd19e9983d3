package ports

import (
	"context"

	"github.com/domapp/portal/internal/core/domain"
)

// UserRepository defines persistence for user accounts. Implementations must
// enforce username and email uniqueness and report violations as
// domain.ErrUserExists; lookups that match nothing return domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Ping(ctx context.Context) error
}
