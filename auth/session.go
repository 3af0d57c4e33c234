package auth

import "sync"

// Session is the two-state admin gate. It starts as guest, is never
// persisted, and knows nothing about the catalog: the catalog store consults
// IsAdmin before applying mutations and makes the enforcement decision
// itself.
type Session struct {
	verifier *Verifier
	mu       sync.RWMutex
	admin    bool
}

func NewSession(verifier *Verifier) *Session {
	return &Session{verifier: verifier}
}

// Login verifies the secret and transitions to admin on success. A failed
// login is a normal user-facing outcome, not an error, and leaves the
// session untouched.
func (s *Session) Login(secret string) bool {
	if !s.verifier.Verify(secret) {
		return false
	}
	s.mu.Lock()
	s.admin = true
	s.mu.Unlock()
	return true
}

// Logout unconditionally returns the session to guest.
func (s *Session) Logout() {
	s.mu.Lock()
	s.admin = false
	s.mu.Unlock()
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}
