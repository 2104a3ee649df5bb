// Package session implements the persisted session store and its local
// key-value backends.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/ports"
)

const (
	TokenKey    = "token"
	UsernameKey = "username"
)

var errIncompleteSession = errors.New("session: token and username must both be set")

// Store is the session of a single scope over a shared backend. For hmsctl the
// scope is the API origin; for the web console it is the browser cookie id.
type Store struct {
	backend ports.SessionBackend
	scope   string
}

func NewStore(backend ports.SessionBackend, scope string) *Store {
	return &Store{backend: backend, scope: scope}
}

// Get returns the stored session, or the absent session when either entry is
// missing.
func (s *Store) Get(ctx context.Context) (domain.Session, error) {
	entries, err := s.backend.GetEntries(ctx, s.scope, TokenKey, UsernameKey)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session get: %w", err)
	}
	sess := domain.Session{Token: entries[TokenKey], Username: entries[UsernameKey]}
	if !sess.Present() {
		return domain.Session{}, nil
	}
	return sess, nil
}

// Set writes both entries in one backend call.
func (s *Store) Set(ctx context.Context, token, username string) error {
	if token == "" || username == "" {
		return errIncompleteSession
	}
	err := s.backend.SetEntries(ctx, s.scope, map[string]string{
		TokenKey:    token,
		UsernameKey: username,
	})
	if err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Clear removes both entries. Clearing an absent session is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.DeleteEntries(ctx, s.scope, TokenKey, UsernameKey); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

// Token satisfies ports.TokenSource.
func (s *Store) Token(ctx context.Context) (string, error) {
	sess, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}
