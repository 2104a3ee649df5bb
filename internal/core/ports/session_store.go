package ports

import (
	"context"

	"github.com/hotelops/hms-console/internal/core/domain"
)

// SessionBackend is a key-value persistence area partitioned by scope. Missing
// keys are simply absent from the returned map.
type SessionBackend interface {
	GetEntries(ctx context.Context, scope string, keys ...string) (map[string]string, error)
	SetEntries(ctx context.Context, scope string, entries map[string]string) error
	DeleteEntries(ctx context.Context, scope string, keys ...string) error
}

// SessionStore holds the token and username of one scope.
type SessionStore interface {
	Get(ctx context.Context) (domain.Session, error)
	Set(ctx context.Context, token, username string) error
	Clear(ctx context.Context) error
}

// TokenSource yields the bearer token attached to authenticated requests. An
// empty token is not an error.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
