package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hotelops/hms-console/internal/api/workspace"
)

// LoginRoute is where unauthenticated visitors of gated pages are sent.
const LoginRoute = "/login"

// RequireLogin lets the request through only when the workspace's session is
// authenticated, and injects the username into context.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ws := workspace.From(c)
			if ws == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "console workspace missing")
			}

			st := ws.Auth.CurrentState()
			if !st.IsAuthenticated {
				return c.Redirect(http.StatusSeeOther, LoginRoute)
			}

			c.Set("username", st.Username)
			return next(c)
		}
	}
}
