package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/hotelops/hms-console/internal/api/workspace"
)

// CookieName carries the browser's workspace id.
const CookieName = "hms_sid"

func setCookie(c echo.Context, id string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Workspace resolves the browser's workspace from its cookie, minting a new id
// when the cookie is absent or malformed.
func Workspace(reg *workspace.Registry, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if ck, err := c.Cookie(CookieName); err == nil {
				if _, err := ulid.ParseStrict(ck.Value); err == nil {
					id = ck.Value
				}
			}
			if id == "" {
				id = ulid.Make().String()
				setCookie(c, id, secure)
			}

			rotate := func(ctx context.Context) (*workspace.Workspace, error) {
				ws, err := reg.Rotate(ctx, id)
				if err != nil {
					return nil, err
				}
				setCookie(c, ws.ID, secure)
				return ws, nil
			}
			workspace.Bind(c, reg.Open(c.Request().Context(), id), rotate)
			return next(c)
		}
	}
}
