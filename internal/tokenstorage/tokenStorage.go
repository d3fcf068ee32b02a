package tokenstorage

import (
	"sync"
)

// TokenStorage remembers every issued token and the session it was issued for.
// A token that is not stored here is rejected even if its signature is valid.
type TokenStorage struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func New() *TokenStorage {
	return &TokenStorage{tokens: make(map[string]string)}
}

func (s *TokenStorage) AddToken(token, sessionID string) {
	s.mu.Lock()
	s.tokens[token] = sessionID
	s.mu.Unlock()
}

// CheckToken returns the session id token was issued for.
func (s *TokenStorage) CheckToken(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessionID, ok := s.tokens[token]
	return sessionID, ok
}

func (s *TokenStorage) RevokeToken(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// RevokeSession drops every token issued for sessionID and reports how many there were.
func (s *TokenStorage) RevokeSession(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for token, id := range s.tokens {
		if id == sessionID {
			delete(s.tokens, token)
			n++
		}
	}
	return n
}

func (s *TokenStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
