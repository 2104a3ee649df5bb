package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hotelops/hms-console/internal/api/view"
	"github.com/hotelops/hms-console/internal/api/workspace"
)

// ctxWorkspace extracts the workspace injected by the Workspace middleware.
func ctxWorkspace(c echo.Context) (*workspace.Workspace, error) {
	ws := workspace.From(c)
	if ws == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "console workspace missing")
	}
	return ws, nil
}

// render draws a page with the workspace's auth state and drains its notices.
func render(c echo.Context, ws *workspace.Workspace, name, title string, body any) error {
	return c.Render(http.StatusOK, name, view.Page{
		Title:   title,
		Auth:    ws.Auth.CurrentState(),
		Notices: ws.Notices.Drain(),
		CSRF:    view.CSRFToken(c),
		Body:    body,
	})
}

// postForm returns a copy of the urlencoded body without the CSRF field;
// query parameters are not form fields.
func postForm(c echo.Context) (url.Values, error) {
	if err := c.Request().ParseForm(); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	values := make(url.Values, len(c.Request().PostForm))
	for k, v := range c.Request().PostForm {
		if k != view.CSRFField {
			values[k] = v
		}
	}
	return values, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}

func seeOther(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}
