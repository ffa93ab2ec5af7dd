package relay

import (
	"sync"
	"time"
)

// Session binds a live connection to the user and room it has joined.
type Session struct {
	UserID       string
	RoomID       string
	LastActivity time.Time
}

// SessionStore maps connection identifiers to their sessions. Sessions hold
// no secrets; sweeping them only bounds the lifetime of stale bindings.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]Session
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
	}
}

// Put records (or rebinds) the session for sessionID. LastActivity is set to
// now; join is the only operation that refreshes it.
func (s *SessionStore) Put(sessionID, userID, roomID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = Session{
		UserID:       userID,
		RoomID:       roomID,
		LastActivity: now,
	}
}

func (s *SessionStore) Get(sessionID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	return sess, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep evicts every session idle for longer than the store TTL.
func (s *SessionStore) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// WipeAll drops every session. Called on shutdown.
func (s *SessionStore) WipeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]Session)
}
