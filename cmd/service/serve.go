package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http"
	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/httpcontext-service/internal/app"
	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/telemetry"
	"github.com/jsamuelsen/httpcontext-service/internal/ports"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load and validate configuration (fail fast)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 2. Initialize logging
	logger := newLogger(cfg)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("dispatch_framework", cfg.Dispatch.Framework),
	)

	// 3. Initialize telemetry (noop if disabled)
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
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 4. Create the request context registry, observed by Prometheus
	registryMetrics, err := telemetry.NewRegistryMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("registering registry metrics: %w", err)
	}

	registry := appcontext.NewRegistry(appcontext.WithObserver(registryMetrics))

	// Self-checks run on their own unobserved registry so their synthetic
	// units stay out of the served-request metrics.
	selfCheckPool := app.NewUnitPool(appcontext.NewRegistry(), cfg.SelfCheck.Workers)

	// 5. Create application services
	contextService := app.NewContextService(app.ContextServiceConfig{
		Registry:      registry,
		SelfCheckPool: selfCheckPool,
		Logger:        logger,
	})

	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.SelfCheck.Timeout))
	if err := healthRegistry.Register(app.NewRegistryHealthChecker(selfCheckPool)); err != nil {
		return fmt.Errorf("registering request context health check: %w", err)
	}

	// 6. Create the framework dispatcher (singleton)
	dispatcher, err := http.NewDispatcher(cfg.Dispatch.Framework, registry, handlers.NewResourceHandler(registry))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	// 7. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo,
		handlers.WithSelfCheck(contextService, cfg.SelfCheck.Units, cfg.SelfCheck.Reads),
	)

	// 8. Create HTTP server and router
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:         logger,
		AppConfig:      &cfg.App,
		Registry:       registry,
		HealthHandler:  healthHandler,
		ContextHandler: handlers.NewContextHandler(contextService),
		Dispatcher:     dispatcher,
		MountPath:      cfg.Dispatch.MountPath,
	})

	// 9. Serve until a shutdown signal arrives
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
