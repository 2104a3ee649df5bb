package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hotelops/hms-console/internal/api/handler"
	"github.com/hotelops/hms-console/internal/api/middleware"
	"github.com/hotelops/hms-console/internal/api/view"
	"github.com/hotelops/hms-console/internal/api/workspace"
)

// Deps is what the console router needs from main.
type Deps struct {
	Registry      *workspace.Registry
	Renderer      echo.Renderer
	Checks        map[string]handler.Check
	SecureCookies bool
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = d.Renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))

	// per-router registry; /metrics gathers it alongside the default one
	httpMetrics := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "hms",
		Subsystem:  "console",
		Registerer: httpMetrics,
		Skipper:    skipProbes,
	}))

	e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		Skipper:        skipProbes,
		TokenLookup:    "form:" + view.CSRFField,
		ContextKey:     view.CSRFContextKey,
		CookieName:     view.CSRFField,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   d.SecureCookies,
		CookieSameSite: http.SameSiteLaxMode,
	}))

	// --- Probes and scrape (no workspace) ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		prometheus.Gatherers{prometheus.DefaultGatherer, httpMetrics},
		promhttp.HandlerOpts{},
	)))

	// --- Console pages ---
	console := e.Group("", middleware.Workspace(d.Registry, d.SecureCookies))

	auth := handler.NewAuthHandler()
	console.GET("/", auth.Landing)
	console.GET("/login", auth.LoginPage)
	console.POST("/login", auth.Login)
	console.GET("/signup", auth.SignupPage)
	console.POST("/signup", auth.Signup)
	console.POST("/logout", auth.Logout)

	gated := console.Group("", middleware.RequireLogin())

	rooms := handler.NewRoomsHandler()
	gated.GET("/rooms", rooms.List)
	gated.POST("/rooms", rooms.Create)
	gated.POST("/rooms/:id", rooms.Update)
	gated.POST("/rooms/:id/delete", rooms.Delete)

	guests := handler.NewGuestsHandler()
	gated.GET("/guests", guests.List)
	gated.POST("/guests", guests.Create)
	gated.POST("/guests/:id", guests.Update)
	gated.POST("/guests/:id/delete", guests.Delete)

	users := handler.NewUsersHandler()
	gated.GET("/users", users.List)
	gated.POST("/users", users.Create)
	gated.POST("/users/:id", users.Update)
	gated.POST("/users/:id/delete", users.Delete)
	gated.POST("/users/:id/role", users.ToggleRole)

	return e
}

func skipProbes(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || p == "/health" || p == "/health/ready"
}
