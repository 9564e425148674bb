package memory

import (
	"context"
	"sync"

	"stayfinder/internal/app/session"
)

// SessionStore is an in-memory session store for single-instance deploys
// and tests. It keeps its own clones and hands out clones, so callers and
// the store never share a live session.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]*session.Session
}

// NewSessionStore builds an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[string]*session.Session)}
}

// Save stores/updates a session entry, detached from the caller's copy.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sess.ID] = sess.Clone()
	return nil
}

// Get returns a clone of the session or session.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// Delete removes a session; deleting an unknown id is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

var _ session.Store = (*SessionStore)(nil)
