package webui

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-profile/pkg/signup"
)

// Session is the signup form of one browser. It is UI state only and
// carries no authentication.
type Session struct {
	ID         string
	Controller *signup.Controller

	mu       sync.Mutex
	route    signup.Route
	lastSeen time.Time
}

// Navigate records the route the browser should be sent to next. It
// implements signup.Navigator.
func (s *Session) Navigate(ctx context.Context, route signup.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = route
	return nil
}

// TakeRoute returns the pending route and clears it.
func (s *Session) TakeRoute() signup.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	route := s.route
	s.route = ""
	return route
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionStore keeps sessions in memory. Sessions idle for longer than the
// TTL are dropped; a TTL of zero keeps them forever.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	opts     []signup.Option
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions get controllers built
// with opts. The session itself is always installed as the navigator.
func NewSessionStore(ttl time.Duration, opts ...signup.Option) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		opts:     opts,
		now:      time.Now,
	}
}

// Get returns a live session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.touch(now)
	return sess, true
}

// Create starts a new session with an empty form.
func (s *SessionStore) Create() *Session {
	now := s.now()
	sess := &Session{
		ID:       uuid.NewString(),
		lastSeen: now,
	}
	opts := append(append([]signup.Option{}, s.opts...), signup.WithNavigator(sess))
	sess.Controller = signup.NewController(opts...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)
	s.sessions[sess.ID] = sess
	return sess
}

// Delete drops a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep removes expired sessions. Caller holds s.mu.
func (s *SessionStore) sweep(now time.Time) {
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("Removed expired signup sessions", "count", removed)
	}
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && sess.idleSince(now) > s.ttl
}
