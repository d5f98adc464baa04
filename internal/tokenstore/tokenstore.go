// Package tokenstore maps opaque session tokens to the users they
// authenticate. Tokens never expire; they are removed only by Revoke.
package tokenstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/userauth/internal/user"
)

// TokenStore is safe for concurrent use.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]user.User
}

func New() *TokenStore {
	return &TokenStore{
		tokens: map[string]user.User{},
	}
}

// Issue creates a random token for usr and stores the mapping.
// A user may hold any number of tokens at once.
func (s *TokenStore) Issue(ctx context.Context, usr user.User) (string, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.String()] = usr

	return token.String(), nil
}

// Resolve returns the user the token was issued to.
func (s *TokenStore) Resolve(ctx context.Context, token string) (user.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	usr, found := s.tokens[token]

	return usr, found, nil
}

// Revoke removes the token and reports whether it was present.
func (s *TokenStore) Revoke(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.tokens[token]; !found {
		return false, nil
	}
	delete(s.tokens, token)

	return true, nil
}

// Count returns the number of active tokens.
func (s *TokenStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tokens)
}
