// Package session keeps one results registry per browser session.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/metrics-calculator/internal/registry"
	"go.uber.org/zap"
)

// ErrUnknownSession is returned for ids that were never issued or have expired.
var ErrUnknownSession = errors.New("unknown session")

type session struct {
	mu       sync.Mutex
	reg      *registry.Registry
	lastSeen time.Time
}

// Store maps session ids to registries. Sessions idle for longer than the TTL
// are discarded together with their results.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used to report expired sessions.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an empty store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new session with an empty registry and returns its id.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	id := uuid.NewString()
	s.sessions[id] = &session{reg: registry.New(), lastSeen: s.now()}
	return id
}

// Exists reports whether id refers to a live session.
func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	_, ok := s.sessions[id]
	return ok
}

// Delete ends a session and discards its results.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	return len(s.sessions)
}

// With runs fn with exclusive access to the session's registry and refreshes
// the session's idle timer.
func (s *Store) With(id string, fn func(reg *registry.Registry) error) error {
	s.mu.Lock()
	s.sweepLocked()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.now()
	}
	s.mu.Unlock()

	if !ok {
		return ErrUnknownSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.reg)
}

func (s *Store) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Debug("session expired",
				zap.String("op", "session.sweep"),
				zap.String("session", id),
			)
		}
	}
}
