package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ozend/earnings-proxy/internal/adapters/http/handlers"
	"github.com/ozend/earnings-proxy/internal/adapters/http/middleware"
	"github.com/ozend/earnings-proxy/internal/platform/config"
	"github.com/ozend/earnings-proxy/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AuthConfig contains authentication header configuration.
	AuthConfig *config.AuthConfig

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// SummaryHandler handles the summary endpoint.
	SummaryHandler *SummaryHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//  6. Timeout - request deadline (applied per-route or globally)
//
// Route groups:
//   - /-/ (internal): Health endpoints, no auth required
//   - /summary: the stable endpoint callers integrate against
//   - /api/v1/: the same endpoints under a versioned prefix
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	// Apply global middleware in order
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	// Register health endpoints (no auth, no timeout for probes)
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	auth := middleware.RequireActionKey(cfg.AuthConfig)

	// The unversioned route is the published contract. It carries the
	// same middleware as the versioned group.
	root := engine.Group("")
	root.Use(auth)

	if cfg.Timeout > 0 {
		root.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	setupAPIRoutes(root, cfg)

	// Versioned alias for the same endpoints
	apiV1 := engine.Group("/api/v1")
	apiV1.Use(auth)

	if cfg.Timeout > 0 {
		apiV1.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	setupAPIRoutes(apiV1, cfg)
}

// setupAPIRoutes registers business API routes.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.SummaryHandler != nil {
		rg.GET("/summary", cfg.SummaryHandler.GetSummary)
	}
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
// Useful for testing or lightweight deployments.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	authCfg *config.AuthConfig,
	healthHandler *handlers.HealthHandler,
	summaryHandler *SummaryHandler,
) RouterConfig {
	return RouterConfig{
		Logger:         logger,
		AuthConfig:     authCfg,
		AppConfig:      appCfg,
		HealthHandler:  healthHandler,
		SummaryHandler: summaryHandler,
		Timeout:        DefaultRequestTimeout,
	}
}
