package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/hotelops/hms-console/internal/api/workspace"
	"github.com/hotelops/hms-console/internal/apitest"
	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/service"
	"github.com/hotelops/hms-console/internal/infrastructure/apiclient"
	"github.com/hotelops/hms-console/internal/infrastructure/session"
)

type fixture struct {
	reg *workspace.Registry
	ws  *workspace.Workspace
	srv *apitest.Server
}

func newWorkspace(t *testing.T) (*workspace.Workspace, *apitest.Server) {
	f := newFixture(t)
	return f.ws, f.srv
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.New(t)
	srv.SeedAccount("alice", "secret", domain.RoleAdmin)
	client, err := apiclient.New(srv.URL, zerolog.Nop())
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	reg := workspace.NewRegistry(session.NewMemoryBackend(), client, 0, zerolog.Nop())
	return &fixture{reg: reg, ws: reg.Open(context.Background(), ulid.Make().String()), srv: srv}
}

// formContext builds a POST context carrying ws and an urlencoded body. The
// bound rotation hook only works for workspaces built by a fixture registry.
func formContext(ws *workspace.Workspace, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	return formContextWith(nil, ws, target, form)
}

func formContextWith(reg *workspace.Registry, ws *workspace.Workspace, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var rotate workspace.RotateFunc
	if reg != nil {
		rotate = func(ctx context.Context) (*workspace.Workspace, error) { return reg.Rotate(ctx, ws.ID) }
	}
	workspace.Bind(c, ws, rotate)
	return c, rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	f := newFixture(t)
	c, rec := formContextWith(f.reg, f.ws, "/login", url.Values{"username": {"alice"}, "password": {"secret"}})

	if err := NewAuthHandler().Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	ws := workspace.From(c)
	if ws == f.ws || ws.ID == f.ws.ID {
		t.Fatalf("login must move the browser to a fresh workspace")
	}
	if st := ws.Auth.CurrentState(); !st.IsAuthenticated || st.Username != "alice" {
		t.Fatalf("unexpected state %+v", st)
	}
	if st := f.reg.Open(context.Background(), f.ws.ID).Auth.CurrentState(); st.IsAuthenticated {
		t.Fatalf("the pre-login id must stay anonymous, got %+v", st)
	}
	notices := ws.Notices.Drain()
	if len(notices) != 1 || notices[0].Message != "Login successful" {
		t.Fatalf("unexpected notices %+v", notices)
	}
}

func TestAuthHandler_Login_Failure(t *testing.T) {
	f := newFixture(t)
	c, rec := formContextWith(f.reg, f.ws, "/login", url.Values{"username": {"alice"}, "password": {"nope"}})

	if err := NewAuthHandler().Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected to stay on /login, got %q", rec.Header().Get("Location"))
	}
	ws := workspace.From(c)
	notices := ws.Notices.Drain()
	if len(notices) != 1 || notices[0].Level != service.LevelError || notices[0].Message != msgLoginFailed {
		t.Fatalf("unexpected notices %+v", notices)
	}
	if ws.Auth.CurrentState().IsAuthenticated {
		t.Fatalf("failed login must not authenticate")
	}
}

func TestAuthHandler_Login_RejectsUnknownField(t *testing.T) {
	ws, srv := newWorkspace(t)
	c, _ := formContext(ws, "/login", url.Values{"username": {"alice"}, "password": {"secret"}, "remember": {"1"}})

	if err := NewAuthHandler().Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if n := srv.Requests(http.MethodPost, "/login"); n != 0 {
		t.Fatalf("invalid form must not reach the API, got %d", n)
	}
}

func TestAuthHandler_Login_WithoutRotationHook(t *testing.T) {
	ws, srv := newWorkspace(t)
	c, _ := formContext(ws, "/login", url.Values{"username": {"alice"}, "password": {"secret"}})

	err := NewAuthHandler().Login(c)
	if !errors.Is(err, workspace.ErrNoRotation) {
		t.Fatalf("expected ErrNoRotation, got %v", err)
	}
	if srv.Requests(http.MethodPost, "/login") != 0 || ws.Auth.CurrentState().IsAuthenticated {
		t.Fatalf("login must not proceed on an unrotated workspace")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	ws, _ := newWorkspace(t)
	if err := ws.Auth.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	c, rec := formContext(ws, "/logout", nil)

	if err := NewAuthHandler().Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != service.LandingRoute {
		t.Fatalf("expected redirect to landing, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if ws.Auth.CurrentState().IsAuthenticated {
		t.Fatalf("expected logged out")
	}
}

func TestAuthHandler_MissingWorkspace(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := NewAuthHandler().Landing(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}
