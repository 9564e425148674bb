package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"stayfinder/internal/app/session"
)

const sessionKeyPrefix = "checkoutSession:"

// SessionStore keeps checkout sessions in Redis so the engine can run with
// more than one instance behind a balancer. Sessions expire with the TTL; an
// expired session simply reads as not found.
type SessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewSessionStore connects a store over an existing client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{Client: client, TTL: ttl}
}

// Save marshals and stores the session, refreshing its TTL.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("redis: marshal session: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKeyPrefix+sess.ID, data, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis: save session: %w", err)
	}
	return nil
}

// Get loads a session; a missing or expired key maps to ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	data, err := s.Client.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis: load session: %w", err)
	}
	var sess session.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("redis: unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session key.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.Client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

var _ session.Store = (*SessionStore)(nil)
