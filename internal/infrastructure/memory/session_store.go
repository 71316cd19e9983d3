// Package memory provides an in-process session store for development and
// tests. Sessions do not survive a restart.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/domapp/portal/internal/core/domain"
)

type entry struct {
	session   *domain.Session
	expiresAt time.Time
}

// SessionStore implements ports.SessionStore with a mutex-guarded map.
// Expired entries are dropped lazily when read.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[id]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, id)
		}
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	return e.session.Clone(), nil
}

func (s *SessionStore) Save(_ context.Context, sess *domain.Session, ttl time.Duration) error {
	if sess.ID == "" {
		return errors.New("session save: empty id")
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[sess.ID] = entry{session: sess.Clone(), expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Ping(context.Context) error { return nil }

// Len returns the number of stored sessions, including expired ones not yet purged.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
