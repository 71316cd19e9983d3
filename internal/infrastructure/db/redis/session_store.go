package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/domapp/portal/internal/core/domain"
)

const keyPrefix = "session:"

// SessionStore implements ports.SessionStore on Redis.
// Key format: session:<id>, value: JSON payload, expiry: the session TTL.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("session get: %w", err)
	}

	sess, err := decodeSession(id, raw)
	if err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session, ttl time.Duration) error {
	if sess.ID == "" {
		return errors.New("session save: empty id")
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func decodeSession(id string, raw []byte) (*domain.Session, error) {
	sess := domain.NewSession()
	if err := json.Unmarshal(raw, sess); err != nil {
		return nil, err
	}
	if sess.Values == nil {
		sess.Values = make(map[string]string)
	}
	sess.ID = id
	return sess, nil
}
