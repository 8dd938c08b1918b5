package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/httpcontext-service/internal/adapters/binding"
	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/middleware"
	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/config"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/telemetry"
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the base logger attached to every request.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// Registry binds each API request to its execution unit.
	Registry *appcontext.Registry

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// ContextHandler handles the /api/v1/context endpoints.
	ContextHandler *handlers.ContextHandler

	// Dispatcher is the framework dispatcher mounted at MountPath.
	Dispatcher http.Handler

	// MountPath is the prefix the dispatcher is served under.
	MountPath string
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Logger - base logger into the request context
//  2. Recovery - catch panics
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - handle distributed tracing correlation
//  5. OpenTelemetry - tracing and metrics
//  6. Logging - request logging (skips health endpoints)
//
// Route groups:
//   - /-/ (internal): Health endpoints, no request binding
//   - /api/v1/ and the dispatcher mount: bound with binding.Gin, then
//     SeedProperties
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	serviceName := "httpcontext-service"
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		serviceName = cfg.AppConfig.Name
	}

	engine.Use(
		middleware.Logger(cfg.Logger),
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(serviceName)...)
	engine.Use(middleware.Logging())

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	if cfg.Registry == nil {
		return
	}

	bound := engine.Group("")
	bound.Use(
		binding.Gin(cfg.Registry),
		middleware.SeedProperties(cfg.Registry),
	)

	if cfg.ContextHandler != nil {
		cfg.ContextHandler.RegisterContextRoutes(bound.Group("/api/v1"))
	}

	if cfg.Dispatcher != nil {
		mountDispatcher(bound, cfg.MountPath, cfg.Dispatcher)
	}
}

// mountDispatcher serves dispatcher for every method below mount, with the
// mount prefix stripped from the path it sees.
func mountDispatcher(rg *gin.RouterGroup, mount string, dispatcher http.Handler) {
	mount = strings.TrimSuffix(mount, "/")

	rg.Any(mount+"/*path", gin.WrapH(http.StripPrefix(mount, dispatcher)))
}
