// Package auth exposes the authenticated identity attached to a request.
// The storefront does not issue or refresh credentials; sessions are written
// by the identity callback and read everywhere else.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Identity is the authenticated customer as the backend user service knows it.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

var ErrNoSession = errors.New("no session for token")

type Store interface {
	Session(ctx context.Context, token string) (*Identity, error)
	Save(ctx context.Context, token string, identity *Identity) error
	Clear(ctx context.Context, token string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Session(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		// a corrupt session is indistinguishable from no session
		return nil, ErrNoSession
	}
	return &identity, nil
}

func (s *RedisStore) Save(ctx context.Context, token string, identity *Identity) error {
	if token == "" {
		return errors.New("token must not be empty")
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return "session:" + token
}
