package mem

import (
	"sync"
	"time"
)

// OAuthStateStore holds single-use OAuth state tokens issued when a login
// flow starts and consumed on the provider callback.
type OAuthStateStore interface {
	Set(state string, ttl time.Duration)

	// Consume reports whether state was issued and not yet expired,
	// removing it either way (single-use).
	Consume(state string) bool
}

type stateEntry struct {
	expiresAt time.Time
}

type OAuthStates struct {
	mu   sync.Mutex
	data map[string]stateEntry
}

func NewOAuthStates() *OAuthStates {
	return &OAuthStates{
		data: make(map[string]stateEntry),
	}
}

func (s *OAuthStates) Set(state string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[state] = stateEntry{expiresAt: time.Now().Add(ttl)}
}

func (s *OAuthStates) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[state]
	if !ok {
		return false
	}
	delete(s.data, state)
	return time.Now().Before(e.expiresAt)
}
