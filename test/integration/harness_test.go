//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/jsamuelsen/httpcontext-service/internal/adapters/http"
	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/httpcontext-service/internal/app"
	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/config"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/telemetry"
	"github.com/jsamuelsen/httpcontext-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// service is a fully wired instance served by httptest.
type service struct {
	server   *httptest.Server
	registry *appcontext.Registry
	metrics  *prometheus.Registry
}

// testConfig returns the default configuration with the given framework.
func testConfig(t *testing.T, framework string) *config.Config {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.Dispatch.Framework = framework
	cfg.SelfCheck.Units = 16
	cfg.SelfCheck.Reads = 8
	cfg.SelfCheck.Workers = 4
	require.NoError(t, cfg.Validate())

	return cfg
}

// startService wires the service the way the serve command does and starts it.
func startService(t *testing.T, cfg *config.Config) *service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	metricsRegistry := prometheus.NewRegistry()
	registryMetrics, err := telemetry.NewRegistryMetrics(metricsRegistry)
	require.NoError(t, err)

	registry := appcontext.NewRegistry(appcontext.WithObserver(registryMetrics))
	selfCheckPool := app.NewUnitPool(appcontext.NewRegistry(), cfg.SelfCheck.Workers)

	contextService := app.NewContextService(app.ContextServiceConfig{
		Registry:      registry,
		SelfCheckPool: selfCheckPool,
		Logger:        logger,
	})

	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.SelfCheck.Timeout))
	require.NoError(t, healthRegistry.Register(app.NewRegistryHealthChecker(selfCheckPool)))

	dispatcher, err := httpadapter.NewDispatcher(cfg.Dispatch.Framework, registry, handlers.NewResourceHandler(registry))
	require.NoError(t, err)

	server := httpadapter.New(&cfg.Server, logger)
	httpadapter.SetupRouter(server.Engine(), httpadapter.RouterConfig{
		Logger:    logger,
		AppConfig: &cfg.App,
		Registry:  registry,
		HealthHandler: handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo("test", "abc123", "now"),
			handlers.WithSelfCheck(contextService, cfg.SelfCheck.Units, cfg.SelfCheck.Reads),
		),
		ContextHandler: handlers.NewContextHandler(contextService),
		Dispatcher:     dispatcher,
		MountPath:      cfg.Dispatch.MountPath,
	})

	ts := httptest.NewServer(server.Engine())
	t.Cleanup(ts.Close)

	return &service{
		server:   ts,
		registry: registry,
		metrics:  metricsRegistry,
	}
}
