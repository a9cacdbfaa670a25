package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"forum/internal/cache"
)

const sessionKeyPrefix = "session:"

// Session is the server-side record of one login.
type Session struct {
	ID       string `json:"-"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// SessionStoreInterface defines the interface for session storage operations.
type SessionStoreInterface interface {
	Save(ctx context.Context, session *Session, ttl time.Duration) error
	// Get returns nil without error when the session does not exist.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete reports whether a session was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// SessionStore keeps sessions in Redis, one key per session.
type SessionStore struct {
	cache *cache.Client
}

var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

// Save stores a session with TTL.
func (s *SessionStore) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get loads a session by id.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	session.ID = id
	return &session, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	existed, err := s.cache.Delete(ctx, sessionKeyPrefix+id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return existed, nil
}
