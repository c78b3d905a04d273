// Package session keeps one layout engine per interactive diagram.
//
// The HTTP server creates a session per client diagram. Each session owns
// an [engine.Engine] and expires after a period without use; expired
// sessions are closed by [MemoryStore.Cleanup], which the server runs on a
// ticker.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/orthonet/pkg/engine"
	"github.com/matzehuels/orthonet/pkg/errors"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 30 * time.Minute

// Session is one diagram and its engine.
type Session struct {
	ID        string
	Engine    *engine.Engine
	CreatedAt time.Time

	mu       sync.Mutex
	lastUsed time.Time
}

// New wraps an engine in a session with a fresh random id.
func New(e *engine.Engine) *Session {
	now := time.Now()
	return &Session{ID: uuid.NewString(), Engine: e, CreatedAt: now, lastUsed: now}
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

// IdleSince reports when the session was last used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Store is the interface for session storage.
type Store interface {
	// Get returns the session or a SESSION_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, s *Session) error
	// Delete closes and removes the session.
	Delete(ctx context.Context, id string) error
	// Cleanup closes sessions idle for longer than the TTL.
	Cleanup(ctx context.Context) (int, error)
	Close() error
}

// MemoryStore holds sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewMemoryStore creates a store. A ttl of zero uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, sessions: map[string]*Session{}}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "invalid session id %q", id)
	}
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	s.Touch()
	return s, nil
}

func (m *MemoryStore) Set(_ context.Context, s *Session) error {
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return s.Engine.Close()
}

func (m *MemoryStore) Cleanup(_ context.Context) (int, error) {
	cutoff := time.Now().Add(-m.ttl)
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range expired {
		_ = s.Engine.Close()
	}
	return len(expired), nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close closes every session.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = map[string]*Session{}
	m.mu.Unlock()
	for _, s := range sessions {
		_ = s.Engine.Close()
	}
	return nil
}
