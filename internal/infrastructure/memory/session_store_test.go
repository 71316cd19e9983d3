package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domapp/portal/internal/core/domain"
)

func TestSessionStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	sess := domain.NewSession()
	sess.ID = "abc"
	sess.Values[domain.SessionKeyUserID] = "u-1"
	require.NoError(t, store.Save(ctx, sess, time.Hour))

	// mutating the caller's copy must not leak into the store
	sess.Values[domain.SessionKeyUserID] = "u-2"

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.Values[domain.SessionKeyUserID])
	assert.Equal(t, "abc", got.ID)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "abc"))
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess := domain.NewSession()
	sess.ID = "short"
	require.NoError(t, store.Save(ctx, sess, time.Minute))

	now = now.Add(59 * time.Second)
	_, err := store.Get(ctx, "short")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_RejectsEmptyID(t *testing.T) {
	store := NewSessionStore()
	assert.Error(t, store.Save(context.Background(), domain.NewSession(), time.Minute))
}

func TestSessionStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := domain.NewSession()
			sess.ID = string(rune('a' + i%26))
			_ = store.Save(ctx, sess, time.Minute)
			_, _ = store.Get(ctx, sess.ID)
			_ = store.Delete(ctx, sess.ID)
		}(i)
	}
	wg.Wait()
}
