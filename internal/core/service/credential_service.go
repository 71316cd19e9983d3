package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/domapp/portal/internal/core/domain"
	"github.com/domapp/portal/internal/core/ports"
)

// CredentialService hashes passwords and creates user records.
type CredentialService struct {
	repo ports.UserRepository
	cost int
	// dummyHash is compared against when there is no user, so a lookup miss
	// costs as much as a wrong password.
	dummyHash []byte
}

// NewCredentialService returns a CredentialService hashing with the given
// bcrypt cost. Out-of-range costs fall back to bcrypt.DefaultCost.
func NewCredentialService(repo ports.UserRepository, cost int) *CredentialService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// cannot fail: the input is 44 bytes and cost is in range
	dummy, _ := bcrypt.GenerateFromPassword(preHash("domapp unknown user"), cost)
	return &CredentialService{repo: repo, cost: cost, dummyHash: dummy}
}

// CreateUser validates the required fields, hashes password and persists a
// new active user. Duplicates are not checked here; the repository reports
// them as domain.ErrUserExists.
func (s *CredentialService) CreateUser(ctx context.Context, username, email, password string) (*domain.User, error) {
	var errs domain.FieldErrors
	if strings.TrimSpace(username) == "" {
		errs.Set(domain.FieldError{Field: "username", Kind: domain.KindRequired, Message: requiredMessages["username"]})
	}
	if strings.TrimSpace(email) == "" {
		errs.Set(domain.FieldError{Field: "email", Kind: domain.KindRequired, Message: requiredMessages["email"]})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword(preHash(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        NormalizeEmail(email),
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	return s.repo.Create(ctx, user)
}

// VerifyPassword reports whether candidate matches the user's stored hash.
// A nil user still pays for one bcrypt comparison and never verifies.
func (s *CredentialService) VerifyPassword(user *domain.User, candidate string) bool {
	if user == nil || user.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, preHash(candidate))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), preHash(candidate)) == nil
}

// preHash condenses a password of any length into the 72 bytes bcrypt reads.
// Base64 keeps NUL bytes out of the bcrypt input.
func preHash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// NormalizeEmail trims the address and lower-cases its domain part. The
// local part is kept as typed. Addresses without '@' are only trimmed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
