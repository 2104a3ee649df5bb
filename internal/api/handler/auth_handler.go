package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hotelops/hms-console/internal/api/view"
	"github.com/hotelops/hms-console/internal/api/workspace"
	"github.com/hotelops/hms-console/internal/core/forms"
	"github.com/hotelops/hms-console/internal/core/service"
)

const msgLoginFailed = "Login failed. Please check your credentials."

// AuthHandler serves the landing, login, signup and logout routes. The auth
// service it drives belongs to the request's workspace.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Landing shows the welcome page; its links depend on the auth state.
func (h *AuthHandler) Landing(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return render(c, ws, view.Landing, "Welcome", nil)
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	if ws.Auth.CurrentState().IsAuthenticated {
		return seeOther(c, "/")
	}
	return render(c, ws, view.Login, "Login", nil)
}

// Login exchanges the submitted credentials for a session.
func (h *AuthHandler) Login(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	values, err := postForm(c)
	if err != nil {
		return err
	}

	creds, err := forms.Login(values)
	if err != nil {
		ws.Notices.Failure(err, msgLoginFailed)
		return seeOther(c, "/login")
	}

	// the id the browser arrived with may have been planted; only a fresh one
	// is ever authenticated
	ws, err = workspace.Rotate(c)
	if err != nil {
		return err
	}
	if err := ws.Auth.Login(c.Request().Context(), creds.Username, creds.Password); err != nil {
		ws.Notices.Push(service.Notice{Level: service.LevelError, Title: "Error", Message: msgLoginFailed})
		return seeOther(c, "/login")
	}

	ws.Notices.Success("Success", "Login successful")
	return seeOther(c, "/")
}

func (h *AuthHandler) SignupPage(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return render(c, ws, view.Signup, "Sign up", nil)
}

// Signup registers an account. It does not log in.
func (h *AuthHandler) Signup(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	values, err := postForm(c)
	if err != nil {
		return err
	}

	reg, err := forms.Signup(values)
	if err != nil {
		ws.Notices.Failure(err, "Signup failed")
		return seeOther(c, "/signup")
	}
	if err := ws.Auth.RegisterConfirmed(c.Request().Context(), reg.Username, reg.Password, reg.ConfirmPassword); err != nil {
		ws.Notices.Failure(err, "Signup failed")
		return seeOther(c, "/signup")
	}

	ws.Notices.Success("Success", "Signup successful! Please log in.")
	return seeOther(c, "/login")
}

// Logout clears the session and follows the auth service to the landing page.
func (h *AuthHandler) Logout(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	ws.Auth.Logout(c.Request().Context())
	return seeOther(c, ws.TakeRedirect("/"))
}
