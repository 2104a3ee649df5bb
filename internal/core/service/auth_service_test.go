package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hotelops/hms-console/internal/apitest"
	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/infrastructure/apiclient"
	"github.com/hotelops/hms-console/internal/infrastructure/session"
)

type stubGateway struct {
	loginFn    func(ctx context.Context, username, password string) (string, error)
	registerFn func(ctx context.Context, username, password string) error
	calls      int
}

func (g *stubGateway) Login(ctx context.Context, username, password string) (string, error) {
	g.calls++
	return g.loginFn(ctx, username, password)
}

func (g *stubGateway) Register(ctx context.Context, username, password string) error {
	g.calls++
	return g.registerFn(ctx, username, password)
}

type failingBackend struct{ err error }

func (b failingBackend) GetEntries(context.Context, string, ...string) (map[string]string, error) {
	return nil, b.err
}
func (b failingBackend) SetEntries(context.Context, string, map[string]string) error { return b.err }
func (b failingBackend) DeleteEntries(context.Context, string, ...string) error      { return b.err }

func newStore() *session.Store {
	return session.NewStore(session.NewMemoryBackend(), "http://api.test")
}

func TestAuthService_LoginStoresSession(t *testing.T) {
	store := newStore()
	gw := &stubGateway{loginFn: func(_ context.Context, u, p string) (string, error) {
		if u != "alice" || p != "secret" {
			t.Fatalf("unexpected credentials %q/%q", u, p)
		}
		return "abc123", nil
	}}
	svc := NewAuthService(gw, store, nil, zerolog.Nop())

	if err := svc.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	sess, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Token != "abc123" || sess.Username != "alice" {
		t.Fatalf("unexpected session %+v", sess)
	}
	st := svc.CurrentState()
	if !st.IsAuthenticated || st.Username != "alice" {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestAuthService_LoginLogoutAgainstAPI(t *testing.T) {
	srv := apitest.New(t)
	srv.SeedAccount("alice", "secret", domain.RoleAdmin)
	client, err := apiclient.New(srv.URL, zerolog.Nop())
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}

	var routes []string
	nav := func(route string) { routes = append(routes, route) }
	store := newStore()
	svc := NewAuthService(apiclient.NewAuthAPI(client), store, navFunc(nav), zerolog.Nop())

	if err := svc.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if st := svc.CurrentState(); !st.IsAuthenticated || st.Username != "alice" {
		t.Fatalf("after login: %+v", st)
	}

	svc.Logout(context.Background())

	if st := svc.CurrentState(); st.IsAuthenticated || st.Username != "" {
		t.Fatalf("after logout: %+v", st)
	}
	sess, _ := store.Get(context.Background())
	if sess.Present() {
		t.Fatalf("session not cleared: %+v", sess)
	}
	if len(routes) != 1 || routes[0] != LandingRoute {
		t.Fatalf("expected navigation to %q, got %v", LandingRoute, routes)
	}
}

func TestAuthService_LoginFailureLeavesSession(t *testing.T) {
	store := newStore()
	if err := store.Set(context.Background(), "old", "bob"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	gw := &stubGateway{loginFn: func(context.Context, string, string) (string, error) {
		return "", &domain.AuthError{Op: "login", Status: 401, Message: "Login failed"}
	}}
	svc := NewAuthService(gw, store, nil, zerolog.Nop())
	svc.Restore(context.Background())

	err := svc.Login(context.Background(), "alice", "nope")
	var ae *domain.AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	sess, _ := store.Get(context.Background())
	if sess.Token != "old" || sess.Username != "bob" {
		t.Fatalf("session changed: %+v", sess)
	}
	if st := svc.CurrentState(); st.Username != "bob" {
		t.Fatalf("state changed: %+v", st)
	}
}

func TestAuthService_LoginPersistFailure(t *testing.T) {
	store := session.NewStore(failingBackend{err: errors.New("disk full")}, "s")
	gw := &stubGateway{loginFn: func(context.Context, string, string) (string, error) { return "tok", nil }}
	svc := NewAuthService(gw, store, nil, zerolog.Nop())

	err := svc.Login(context.Background(), "alice", "secret")
	var ae *domain.AuthError
	if !errors.As(err, &ae) || ae.Message != "Login failed" {
		t.Fatalf("expected Login failed AuthError, got %v", err)
	}
	if svc.CurrentState().IsAuthenticated {
		t.Fatalf("state must stay unauthenticated")
	}
}

func TestAuthService_LogoutNeverFails(t *testing.T) {
	store := session.NewStore(failingBackend{err: errors.New("unreachable")}, "s")
	navigated := false
	svc := NewAuthService(&stubGateway{}, store, navFunc(func(string) { navigated = true }), zerolog.Nop())

	svc.Logout(context.Background())

	if svc.CurrentState().IsAuthenticated {
		t.Fatalf("expected logged out state")
	}
	if !navigated {
		t.Fatalf("expected navigation even when clear fails")
	}
}

func TestAuthService_RestoreReadsStore(t *testing.T) {
	store := newStore()
	svc := NewAuthService(&stubGateway{}, store, nil, zerolog.Nop())

	if st := svc.Restore(context.Background()); st.IsAuthenticated {
		t.Fatalf("empty store must read as logged out: %+v", st)
	}
	if err := store.Set(context.Background(), "tok", "carol"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if st := svc.Restore(context.Background()); !st.IsAuthenticated || st.Username != "carol" {
		t.Fatalf("unexpected state %+v", st)
	}

	broken := NewAuthService(&stubGateway{}, session.NewStore(failingBackend{err: errors.New("x")}, "s"), nil, zerolog.Nop())
	if st := broken.Restore(context.Background()); st.IsAuthenticated {
		t.Fatalf("unreadable store must read as logged out")
	}
}

func TestAuthService_RegisterDoesNotAuthenticate(t *testing.T) {
	srv := apitest.New(t)
	client, err := apiclient.New(srv.URL, zerolog.Nop())
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	store := newStore()
	svc := NewAuthService(apiclient.NewAuthAPI(client), store, nil, zerolog.Nop())

	if err := svc.Register(context.Background(), "dave", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if svc.CurrentState().IsAuthenticated {
		t.Fatalf("register must not log in")
	}

	err = svc.Register(context.Background(), "dave", "pw")
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_RegisterConfirmedMismatch(t *testing.T) {
	gw := &stubGateway{registerFn: func(context.Context, string, string) error { return nil }}
	svc := NewAuthService(gw, newStore(), nil, zerolog.Nop())

	err := svc.RegisterConfirmed(context.Background(), "erin", "a", "b")
	if !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("mismatch must not reach the gateway")
	}

	if err := svc.RegisterConfirmed(context.Background(), "erin", "a", "a"); err != nil {
		t.Fatalf("RegisterConfirmed: %v", err)
	}
	if gw.calls != 1 {
		t.Fatalf("expected one gateway call, got %d", gw.calls)
	}
}

type navFunc func(string)

func (f navFunc) Navigate(route string) { f(route) }
