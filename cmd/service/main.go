// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ozend/earnings-proxy/internal/adapters/cache"
	"github.com/ozend/earnings-proxy/internal/adapters/clients"
	"github.com/ozend/earnings-proxy/internal/adapters/clients/acl"
	"github.com/ozend/earnings-proxy/internal/adapters/clients/ir"
	"github.com/ozend/earnings-proxy/internal/adapters/http"
	"github.com/ozend/earnings-proxy/internal/adapters/http/handlers"
	"github.com/ozend/earnings-proxy/internal/adapters/llm"
	"github.com/ozend/earnings-proxy/internal/app"
	"github.com/ozend/earnings-proxy/internal/platform/config"
	"github.com/ozend/earnings-proxy/internal/platform/logging"
	"github.com/ozend/earnings-proxy/internal/platform/telemetry"
	"github.com/ozend/earnings-proxy/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Create HTTP client for the transcript provider
	providerClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Provider.BaseURL,
		ServiceName: cfg.Provider.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating provider HTTP client: %w", err)
	}

	// 7. Create transcript provider adapter (ACL pattern)
	transcriptClient := acl.NewTranscriptClient(acl.TranscriptClientConfig{
		Client:   providerClient,
		APIKey:   cfg.Provider.APIKey,
		Function: cfg.Provider.Function,
		Logger:   logger,
	})

	if err := healthRegistry.Register(transcriptClient); err != nil {
		return fmt.Errorf("registering provider health check: %w", err)
	}

	// 8. Create the investor-relations fallback when configured
	var (
		locator ports.FallbackLocator
		fetcher ports.DocumentFetcher
	)

	if cfg.Fallback.PageURL != "" && len(cfg.Fallback.Tickers) > 0 {
		irClient, irErr := clients.New(&clients.Config{
			BaseURL:     cfg.Fallback.PageURL,
			ServiceName: "ir-site",
			Timeout:     cfg.Client.Timeout,
			Retry:       cfg.Client.Retry,
			Circuit:     cfg.Client.CircuitBreaker,
			Logger:      logger,
		})
		if irErr != nil {
			return fmt.Errorf("creating fallback HTTP client: %w", irErr)
		}

		locator = ir.NewPageLocator(ir.LocatorConfig{
			Client:  irClient,
			PageURL: cfg.Fallback.PageURL,
			Logger:  logger,
		})
		fetcher = ir.NewDocumentClient(ir.FetcherConfig{
			Client: irClient,
			Logger: logger,
		})
	}

	// 9. Create the LLM summarizer
	summarizer := llm.NewClaudeSummarizer(llm.Config{
		APIKey:    cfg.Summarizer.APIKey,
		Model:     cfg.Summarizer.Model,
		MaxTokens: int(cfg.Summarizer.MaxTokens),
		Logger:    logger,
	})

	if err := healthRegistry.Register(summarizer); err != nil {
		return fmt.Errorf("registering summarizer health check: %w", err)
	}

	// 10. Create the summary cache
	var summaryCache ports.Cache

	if cfg.Cache.Enabled {
		mem := cache.NewMemory(cfg.Cache.SweepInterval)
		defer mem.Close()

		summaryCache = mem
	}

	// 11. Create application services
	resolver := app.NewResolver(app.ResolverConfig{
		Provider:    transcriptClient,
		Locator:     locator,
		Fetcher:     fetcher,
		Eligibility: app.AllowList(cfg.Fallback.Tickers),
		Logger:      logger,
	})

	summaryService := app.NewSummaryService(app.SummaryServiceConfig{
		Resolver:   resolver,
		Summarizer: summarizer,
		Cache:      summaryCache,
		TTLSeconds: int(cfg.Cache.TTL.Seconds()),
		Logger:     logger,
	})

	// 12. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)

	// 13. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 14. Setup router with all middleware and routes
	routerCfg := http.RouterConfig{
		Logger:         logger,
		AuthConfig:     &cfg.Auth,
		AppConfig:      &cfg.App,
		HealthHandler:  healthHandler,
		SummaryHandler: http.NewSummaryHandler(summaryService, logger),
		Timeout:        http.DefaultRequestTimeout,
	}
	http.SetupRouter(server.Engine(), routerCfg)

	// 15. Start server (non-blocking)
	serverErr := server.Start()

	// 16. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Graceful shutdown sequence
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
