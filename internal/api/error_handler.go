package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hotelops/hms-console/internal/api/view"
	"github.com/hotelops/hms-console/internal/core/domain"
)

// errorResponse is the error envelope for JSON clients.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders the error
// page for browsers and {"error": "<message>"} for JSON clients and probes.
// Unexpected errors are logged without leaking details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if wantsJSON(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}
		page := view.Page{
			Title: http.StatusText(code),
			CSRF:  view.CSRFToken(c),
			Body:  view.ErrorBody{Status: code, Message: msg},
		}
		if rerr := c.Render(code, view.Error, page); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.JSON(code, errorResponse{Error: msg})
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (404 from router, bad forms, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	var fe *domain.FetchError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "not logged in"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.As(err, &fe):
		return http.StatusBadGateway, fe.Message
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func wantsJSON(c echo.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/health") {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
