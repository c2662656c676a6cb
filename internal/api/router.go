package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/reelnotes/reelnotes/internal/api/handler"
	"github.com/reelnotes/reelnotes/internal/api/middleware"
	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth    ports.AuthService
	Catalog ports.CatalogService
	// Health lists the dependencies checked by /health/ready.
	Health map[string]handler.Pinger
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(requestLogger(deps.Log))

	// HTTP metrics live in a per-router registry so several routers can
	// coexist in one process; /metrics merges it with the default one.
	httpMetrics := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "reelnotes_api",
		Registerer: httpMetrics,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/health") || c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	movieHandler := handler.NewMovieHandler(deps.Catalog)
	reviewHandler := handler.NewReviewHandler(deps.Catalog)

	required := middleware.Auth(deps.Auth)
	optional := middleware.OptionalAuth(deps.Auth)
	staffOnly := middleware.RBAC(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/token/", authHandler.Login)
	api.POST("/token/refresh/", authHandler.Refresh)
	api.GET("/auth/registration/", authHandler.RegistrationInfo)
	api.POST("/auth/registration/", authHandler.Register, optional)
	api.GET("/auth/user/", authHandler.Me, required)

	// --- Movies: read for everyone, write for staff ---
	api.GET("/movies/", movieHandler.List, optional)
	api.GET("/movies/:id/", movieHandler.Get, optional)
	api.POST("/movies/", movieHandler.Create, required, staffOnly)
	api.PUT("/movies/:id/", movieHandler.Update, required, staffOnly)
	api.DELETE("/movies/:id/", movieHandler.Delete, required, staffOnly)

	// --- Reviews ---
	api.GET("/movies/:id/review/", reviewHandler.ListForMovie, optional)
	api.POST("/movies/:id/review/", reviewHandler.Create, required)
	api.PUT("/reviews/:id/", reviewHandler.Update, required)
	api.DELETE("/reviews/:id/", reviewHandler.Delete, required)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Health)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{httpMetrics, prometheus.DefaultGatherer},
	}))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
