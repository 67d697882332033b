package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultIdleTimeout = 2 * time.Hour

// Store keeps sessions in memory. Idle sessions are dropped lazily on access.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
}

// NewStore returns a store that expires sessions untouched for idle.
// idle <= 0 uses DefaultIdleTimeout.
func NewStore(idle time.Duration) *Store {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Store{
		sessions: make(map[string]*Session),
		idle:     idle,
		now:      time.Now,
	}
}

// Create starts a new empty session.
func (s *Store) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	sess := New(uuid.NewString())
	sess.UpdatedAt = s.now()
	s.sessions[sess.ID] = sess
	return copySession(sess)
}

// Get returns a copy of the session with id.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return copySession(sess), nil
}

// Update applies fn to the stored session under the store lock and refreshes
// its idle timer.
func (s *Store) Update(id string, fn func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.now()
	return copySession(sess), nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	return len(s.sessions)
}

func (s *Store) expireLocked() {
	cutoff := s.now().Add(-s.idle)
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func copySession(sess *Session) *Session {
	out := *sess
	out.Results = append(out.Results[:0:0], sess.Results...)
	out.Warnings = append(out.Warnings[:0:0], sess.Warnings...)
	return &out
}
