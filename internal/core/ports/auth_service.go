package ports

import (
	"context"

	"github.com/domapp/portal/internal/core/domain"
)

// RegisterInput is the registration form after binding.
type RegisterInput struct {
	Username        string `form:"username"         validate:"required"`
	Email           string `form:"email"            validate:"required"`
	Password        string `form:"password"         validate:"required"`
	PasswordConfirm string `form:"password_confirm" validate:"required"`
}

// LoginInput is the login form after binding.
type LoginInput struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// AuthService runs the registration and login use cases.
//
// Register accumulates every validation problem before giving up; Login stops
// at the first one. Both report user-facing problems as domain.FieldErrors;
// any other error is unexpected.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*domain.User, error)
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

// CredentialService owns password hashing and account creation.
type CredentialService interface {
	CreateUser(ctx context.Context, username, email, password string) (*domain.User, error)
	// VerifyPassword must spend the same hashing work when user is nil, so
	// callers can hide whether a username exists.
	VerifyPassword(user *domain.User, candidate string) bool
}
