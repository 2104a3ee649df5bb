package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/ports"
	"github.com/hotelops/hms-console/internal/metrics"
)

// LandingRoute is where logout sends the operator.
const LandingRoute = "/"

var _ ports.AuthService = (*AuthService)(nil)

// AuthService owns the login state of one session scope. It is handed to every
// consumer explicitly; nothing reads the session store behind its back.
type AuthService struct {
	gateway ports.AuthGateway
	store   ports.SessionStore
	nav     ports.Navigator
	log     zerolog.Logger

	mu    sync.RWMutex
	state domain.AuthState
}

// NewAuthService wires the service. nav may be nil when the surface has nowhere
// to go after logout.
func NewAuthService(gateway ports.AuthGateway, store ports.SessionStore, nav ports.Navigator, log zerolog.Logger) *AuthService {
	return &AuthService{gateway: gateway, store: store, nav: nav, log: log}
}

// Restore recomputes the state from the session store. Surfaces call it when
// they mount; a store that cannot be read counts as logged out.
func (s *AuthService) Restore(ctx context.Context) domain.AuthState {
	sess, err := s.store.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session store unreadable, treating as logged out")
		sess = domain.Session{}
	}
	st := domain.StateOf(sess)

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return st
}

// CurrentState is a pure read of the last computed state.
func (s *AuthService) CurrentState() domain.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Login exchanges credentials for a token and persists it with username. On
// any failure the session is left as it was.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	token, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		metrics.AuthEventsTotal.WithLabelValues("login_failed").Inc()
		s.log.Warn().Err(err).Str("username", username).Msg("login failed")
		return err
	}

	if err := s.store.Set(ctx, token, username); err != nil {
		metrics.AuthEventsTotal.WithLabelValues("login_failed").Inc()
		s.log.Error().Err(err).Str("username", username).Msg("login: persist session")
		return &domain.AuthError{Op: "login", Message: "Login failed", Err: err}
	}

	s.mu.Lock()
	s.state = domain.AuthState{IsAuthenticated: true, Username: username}
	s.mu.Unlock()

	metrics.AuthEventsTotal.WithLabelValues("login").Inc()
	s.log.Info().Str("username", username).Msg("logged in")
	return nil
}

// Logout is local only and always succeeds. A store that fails to clear is
// logged; the in-memory state is reset regardless.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("logout: clear session")
	}

	s.mu.Lock()
	prev := s.state.Username
	s.state = domain.AuthState{}
	s.mu.Unlock()

	metrics.AuthEventsTotal.WithLabelValues("logout").Inc()
	s.log.Info().Str("username", prev).Msg("logged out")

	if s.nav != nil {
		s.nav.Navigate(LandingRoute)
	}
}

// Register creates an account without logging in.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if err := s.gateway.Register(ctx, username, password); err != nil {
		metrics.AuthEventsTotal.WithLabelValues("register_failed").Inc()
		s.log.Warn().Err(err).Str("username", username).Msg("register failed")
		return err
	}
	metrics.AuthEventsTotal.WithLabelValues("register").Inc()
	s.log.Info().Str("username", username).Msg("account registered")
	return nil
}

// RegisterConfirmed is Register behind the signup form's confirm-password check.
func (s *AuthService) RegisterConfirmed(ctx context.Context, username, password, confirm string) error {
	if password != confirm {
		metrics.ValidationRejectsTotal.WithLabelValues("password_mismatch").Inc()
		return &domain.ValidationError{
			Field:   "confirmPassword",
			Message: "Passwords do not match",
			Err:     domain.ErrPasswordMismatch,
		}
	}
	return s.Register(ctx, username, password)
}
