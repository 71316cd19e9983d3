package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domapp/portal/internal/core/domain"
)

func setupTestRepo(t *testing.T) (*UserRepository, func()) {
	t.Helper()

	db, err := Open(context.Background(), Config{Dialect: DialectSQLite, DSN: ":memory:"})
	require.NoError(t, err)

	return NewUserRepository(db, DialectSQLite), func() { _ = db.Close() }
}

func newUser(username, email string) *domain.User {
	return &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$hash",
		IsActive:     true,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	user := newUser("alice", "a@x.com")
	created, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "a@x.com", byID.Email)
	assert.Equal(t, user.PasswordHash, byID.PasswordHash)
	assert.True(t, byID.IsActive)
	assert.True(t, user.CreatedAt.Equal(byID.CreatedAt), "created_at %v != %v", user.CreatedAt, byID.CreatedAt)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	_, err := repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	_, err := repo.Create(ctx, newUser("alice", "a@x.com"))
	require.NoError(t, err)

	tests := []struct {
		name string
		user *domain.User
	}{
		{name: "duplicate username", user: newUser("alice", "other@x.com")},
		{name: "duplicate email", user: newUser("bob", "a@x.com")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tt.user)
			assert.ErrorIs(t, err, domain.ErrUserExists)
		})
	}
}

func TestUserRepository_Exists(t *testing.T) {
	ctx := context.Background()
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	_, err := repo.Create(ctx, newUser("alice", "a@x.com"))
	require.NoError(t, err)

	ok, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ExistsByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Ping(ctx))
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	_, err := Open(context.Background(), Config{Dialect: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := `SELECT 1 FROM users WHERE username = ? AND email = ?`
	assert.Equal(t, q, rebind(DialectSQLite, q))
	assert.Equal(t, `SELECT 1 FROM users WHERE username = $1 AND email = $2`, rebind(DialectPostgres, q))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(sql.ErrNoRows))
	assert.True(t, isUniqueViolation(fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgUniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")))
}
