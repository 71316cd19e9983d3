package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/domapp/portal/internal/api/handler"
	"github.com/domapp/portal/internal/api/middleware"
	"github.com/domapp/portal/internal/api/view"
	"github.com/domapp/portal/internal/core/ports"
	"github.com/domapp/portal/internal/infrastructure/http/handlers"
	"github.com/domapp/portal/internal/session"
)

const metricsSubsystem = "domapp"

// Deps is everything the router needs from main.
type Deps struct {
	Auth     ports.AuthService
	Sessions *session.Store
	// Health maps a dependency name to its readiness check.
	Health map[string]handlers.Pinger
	Log    zerolog.Logger

	CSRFEnabled   bool
	SecureCookies bool
	// DisableMetrics skips the Prometheus middleware and endpoint. Tests that
	// build several routers in one process set it.
	DisableMetrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("build renderer: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	if !d.DisableMetrics {
		e.Use(echoprometheus.NewMiddleware(metricsSubsystem))
	}
	if d.CSRFEnabled {
		e.Use(middleware.CSRF(d.SecureCookies))
	}
	e.Use(d.Sessions.Middleware())

	// --- Pages ---
	auth := handler.NewAuthHandler(d.Auth, d.Sessions, d.Log)

	e.GET(handler.RouteRegister, auth.Register)
	e.POST(handler.RouteRegister, auth.Register)
	e.GET(handler.RouteLogin, auth.Login)
	e.POST(handler.RouteLogin, auth.Login)
	e.GET(handler.RouteHome, auth.Home)
	e.GET(handler.RouteLogout, auth.Logout)

	// --- Health checks and metrics (no session required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	if !d.DisableMetrics {
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	return e, nil
}
