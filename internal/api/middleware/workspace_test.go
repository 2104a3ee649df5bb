package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/hotelops/hms-console/internal/api/workspace"
)

func runWorkspace(t *testing.T, reg *workspace.Registry, cookie *http.Cookie) (*httptest.ResponseRecorder, *workspace.Workspace) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *workspace.Workspace
	handler := Workspace(reg, false)(func(c echo.Context) error {
		got = workspace.From(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, got
}

func TestWorkspace_MintsCookie(t *testing.T) {
	reg, _ := newRegistry(t)
	rec, ws := runWorkspace(t, reg, nil)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected %s cookie, got %v", CookieName, cookies)
	}
	if _, err := ulid.ParseStrict(cookies[0].Value); err != nil {
		t.Fatalf("cookie is not a ULID: %v", err)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("cookie must be HttpOnly")
	}
	if ws == nil || ws.ID != cookies[0].Value {
		t.Fatalf("workspace not bound to the minted id")
	}
}

func TestWorkspace_ReusesValidCookie(t *testing.T) {
	reg, _ := newRegistry(t)
	id := ulid.Make().String()
	rec, ws := runWorkspace(t, reg, &http.Cookie{Name: CookieName, Value: id})

	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("a valid cookie must not be replaced")
	}
	if ws.ID != id {
		t.Fatalf("expected workspace %s, got %s", id, ws.ID)
	}
	_, again := runWorkspace(t, reg, &http.Cookie{Name: CookieName, Value: id})
	if again != ws {
		t.Fatalf("expected the same workspace on the next request")
	}
}

func TestWorkspace_ReplacesForgedCookie(t *testing.T) {
	reg, _ := newRegistry(t)
	rec, ws := runWorkspace(t, reg, &http.Cookie{Name: CookieName, Value: "../../etc"})

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "../../etc" {
		t.Fatalf("expected a fresh cookie, got %v", cookies)
	}
	if ws.ID != cookies[0].Value {
		t.Fatalf("workspace not bound to the fresh id")
	}
}

func TestWorkspace_RotateReissuesCookie(t *testing.T) {
	reg, _ := newRegistry(t)
	planted := ulid.Make().String()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: planted})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var rotated *workspace.Workspace
	handler := Workspace(reg, false)(func(c echo.Context) error {
		ws, err := workspace.Rotate(c)
		if err != nil {
			return err
		}
		rotated = ws
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == planted || cookies[0].Value != rotated.ID {
		t.Fatalf("expected a cookie for the rotated workspace, got %v", cookies)
	}
	if workspace.From(c) != rotated {
		t.Fatalf("context must carry the rotated workspace")
	}
}
