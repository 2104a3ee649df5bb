package ports

import (
	"context"

	"github.com/hotelops/hms-console/internal/core/domain"
)

// AuthGateway performs the network round trips against the login and register
// endpoints. Failures are *domain.AuthError.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (token string, err error)
	Register(ctx context.Context, username, password string) error
}

// Navigator moves the operator to another surface after an auth transition.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// AuthService is the login state of one session scope as the surfaces see it.
type AuthService interface {
	Restore(ctx context.Context) domain.AuthState
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context)
	Register(ctx context.Context, username, password string) error
	RegisterConfirmed(ctx context.Context, username, password, confirm string) error
	CurrentState() domain.AuthState
}
