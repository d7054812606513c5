package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"qbank/internal/domain"
	"qbank/internal/logger"
)

// Manager keeps the live sessions of a server, one per user. Sessions idle
// for longer than the TTL are evicted and closed. Safe for concurrent use.
type Manager struct {
	sessions          *cache.Cache
	deps              Deps
	defaultCredential string
}

type ManagerOption func(*Manager)

// WithDefaultCredential gives every new session an initial model API key.
func WithDefaultCredential(credential string) ManagerOption {
	return func(m *Manager) { m.defaultCredential = credential }
}

func NewManager(deps Deps, ttl, cleanupInterval time.Duration, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: cache.New(ttl, cleanupInterval),
		deps:     deps,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sessions.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Close()
			logger.Get().Info("Session evicted", zap.String("session_id", id))
		}
	})
	return m
}

// Create starts a new session with a random UUID.
func (m *Manager) Create() (*Session, error) {
	s := New(uuid.NewString(), m.deps)
	if m.defaultCredential != "" {
		if err := s.SetCredential(m.defaultCredential); err != nil {
			s.Close()
			return nil, err
		}
	}
	m.sessions.SetDefault(s.ID(), s)
	logger.Get().Info("Session created", zap.String("session_id", s.ID()))
	return s, nil
}

// Get returns the session and refreshes its idle timer. The entry is
// re-stored under the session's own ID: id may alias a request buffer.
// Replace fails if the entry was evicted after the lookup, so a closed
// session is never put back.
func (m *Manager) Get(id string) (*Session, error) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, domain.NewSessionNotFoundError(strings.Clone(id))
	}
	s := v.(*Session)
	if err := m.sessions.Replace(s.ID(), s, cache.DefaultExpiration); err != nil {
		return nil, domain.NewSessionNotFoundError(s.ID())
	}
	return s, nil
}

// Delete closes and forgets the session.
func (m *Manager) Delete(id string) error {
	if _, ok := m.sessions.Get(id); !ok {
		return domain.NewSessionNotFoundError(id)
	}
	m.sessions.Delete(id)
	return nil
}

func (m *Manager) Count() int {
	return m.sessions.ItemCount()
}

// Close closes every session.
func (m *Manager) Close() {
	for id := range m.sessions.Items() {
		m.sessions.Delete(id)
	}
}
