// Package session tracks which user is signed in and tells subscribers when
// that changes.
package session

import (
	"sync"

	"github.com/sumire/freelance/internal/domain"
)

// Listener is called with the new identity after every change; ok is false
// once the user has signed out.
type Listener func(identity domain.Identity, ok bool)

// Session holds the current identity.
type Session struct {
	mu        sync.RWMutex
	current   domain.Identity
	listeners map[int]Listener
	nextID    int
}

// New returns a signed-out session.
func New() *Session {
	return &Session{listeners: make(map[int]Listener)}
}

// Current returns the signed-in identity.
func (s *Session) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current.UserID != ""
}

// UserID returns the signed-in user id, or "" when signed out.
func (s *Session) UserID() string {
	identity, _ := s.Current()
	return identity.UserID
}

// SignIn makes identity current. Signing in as the current user is a no-op.
func (s *Session) SignIn(identity domain.Identity) {
	if identity.UserID == "" {
		s.SignOut()
		return
	}
	s.set(identity)
}

// SignOut clears the current identity.
func (s *Session) SignOut() {
	s.set(domain.Identity{})
}

// Subscribe registers fn for identity changes and returns a function that
// removes it.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) set(identity domain.Identity) {
	s.mu.Lock()
	if s.current.UserID == identity.UserID {
		s.current = identity
		s.mu.Unlock()
		return
	}
	s.current = identity
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	// Listeners run outside the lock so they may read the session.
	for _, l := range listeners {
		l(identity, identity.UserID != "")
	}
}
