package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/freight-pricing/docs"
	"github.com/99minutos/freight-pricing/internal/api/handler"
	"github.com/99minutos/freight-pricing/internal/api/middleware"
	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Prices    ports.PriceService
	Queries   ports.PriceQueryService
	Exporter  handler.Exporter
	Readiness []handler.DependencyCheck
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddleware("pricing"))

	// --- Prices ---
	prices := handler.NewPriceHandler(deps.Prices, deps.Queries, deps.Exporter)
	auth := middleware.Auth(deps.JWTSecret)

	e.GET("/v1/prices", prices.List, middleware.OptionalAuth(deps.JWTSecret))

	v1 := e.Group("/v1/prices", auth)
	v1.GET("/export", prices.Export, middleware.RequirePermission(domain.PermPriceExport))
	v1.POST("/import", prices.Import, middleware.RequirePermission(domain.PermPriceImport))
	v1.POST("/check-conflict", prices.CheckConflict)
	v1.POST("/validate", prices.Validate)
	v1.GET("/:id", prices.Get)
	v1.POST("", prices.Create, middleware.RequirePermission(domain.PermPriceCreate))
	v1.PUT("/:id", prices.Update, middleware.RequirePermission(domain.PermPriceUpdate))
	v1.DELETE("/:id", prices.Delete, middleware.RequirePermission(domain.PermPriceDelete))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
