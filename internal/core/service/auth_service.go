package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/domapp/portal/internal/core/domain"
	"github.com/domapp/portal/internal/core/ports"
)

const (
	msgPasswordMismatch = "The two passwords do not match."
	msgUsernameTaken    = "This username is already taken."
	msgEmailTaken       = "This email is already associated with an account."
	msgMissingLogin     = "Please enter your username and password."

	// MsgBadCredentials is shown for both unknown users and wrong passwords.
	MsgBadCredentials = "Incorrect username or password."
)

// AuthService implements registration and login.
type AuthService struct {
	users    ports.UserRepository
	creds    ports.CredentialService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, creds ports.CredentialService, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		creds:    creds,
		validate: newValidator(),
		log:      log,
	}
}

// Register validates the form and creates the account. Every check runs even
// when an earlier one failed, so the caller sees all problems at once.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	errs, err := presenceErrors(s.validate, &in)
	if err != nil {
		return nil, fmt.Errorf("validate registration: %w", err)
	}

	if in.Password != "" && in.PasswordConfirm != "" && in.Password != in.PasswordConfirm {
		errs.Set(domain.FieldError{Field: "password_confirm", Kind: domain.KindMismatch, Message: msgPasswordMismatch})
	}

	if in.Username != "" {
		taken, err := s.users.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			errs.Set(domain.FieldError{Field: "username", Kind: domain.KindDuplicate, Message: msgUsernameTaken})
		}
	}

	if in.Email != "" {
		taken, err := s.users.ExistsByEmail(ctx, NormalizeEmail(in.Email))
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			errs.Set(domain.FieldError{Field: "email", Kind: domain.KindDuplicate, Message: msgEmailTaken})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	user, err := s.creds.CreateUser(ctx, in.Username, in.Email, in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login checks the credentials and returns the matching user. It stops at the
// first failure and never reveals whether the username exists.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*domain.User, error) {
	if err := s.validate.Struct(&in); err != nil {
		return nil, domain.FieldErrors{{Field: domain.FieldGeneral, Kind: domain.KindRequired, Message: msgMissingLogin}}
	}

	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// same bcrypt cost as a wrong password
			s.creds.VerifyPassword(nil, in.Password)
			s.log.Warn().Str("username", in.Username).Msg("login rejected: unknown user")
			return nil, domain.FieldErrors{{Field: "username", Kind: domain.KindCredentials, Message: MsgBadCredentials}}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.creds.VerifyPassword(user, in.Password) {
		s.log.Warn().Str("user_id", user.ID).Msg("login rejected: wrong password")
		return nil, domain.FieldErrors{{Field: "password", Kind: domain.KindCredentials, Message: MsgBadCredentials}}
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, nil
}

// UserByID resolves a session's user id back to the account.
func (s *AuthService) UserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}
