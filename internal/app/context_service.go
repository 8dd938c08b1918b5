package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
	"github.com/jsamuelsen/httpcontext-service/internal/domain"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/logging"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/telemetry"
)

// reservedProperties are seeded by the HTTP layer and cannot be overwritten
// through the API.
var reservedProperties = map[string]struct{}{
	appcontext.PropertyRequestID:     {},
	appcontext.PropertyCorrelationID: {},
	appcontext.PropertyReceivedAt:    {},
}

// ContextService exposes the request bound to the caller's execution unit.
// It depends on the registry only, never on a concrete router.
type ContextService struct {
	reg    *appcontext.Registry
	pool   *UnitPool
	logger *slog.Logger
}

// ContextServiceConfig contains configuration for the context service.
type ContextServiceConfig struct {
	Registry *appcontext.Registry

	// Workers bounds the concurrency of self-checks. Defaults to 1.
	// Ignored when SelfCheckPool is set.
	Workers int

	// SelfCheckPool runs self-checks. Defaults to a pool over a private
	// registry so synthetic units never reach Registry's observer.
	SelfCheckPool *UnitPool

	Logger *slog.Logger
}

// NewContextService creates a context service. It panics without a registry.
func NewContextService(cfg ContextServiceConfig) *ContextService {
	if cfg.Registry == nil {
		panic("app: NewContextService requires a registry")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pool := cfg.SelfCheckPool
	if pool == nil {
		pool = NewUnitPool(appcontext.NewRegistry(), cfg.Workers)
	}

	return &ContextService{
		reg:    cfg.Registry,
		pool:   pool,
		logger: logger.With(slog.String("component", "app.ContextService")),
	}
}

// Describe returns a snapshot of the request bound to ctx.
func (s *ContextService) Describe(ctx context.Context) (*domain.ExchangeSnapshot, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ContextService.Describe")
	defer span.End()

	info, err := s.reg.URIInfo(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	req, err := s.reg.Request(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	props, err := s.reg.Properties(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	values := props.Snapshot()

	snapshot := &domain.ExchangeSnapshot{
		Framework:     info.Framework,
		Method:        req.Method,
		Path:          info.Path,
		Pattern:       info.Pattern,
		Params:        info.Params,
		Query:         firstValues(info.Query),
		RequestID:     stringValue(values, appcontext.PropertyRequestID),
		CorrelationID: stringValue(values, appcontext.PropertyCorrelationID),
		Properties:    values,
		CapturedAt:    time.Now().UTC(),
	}

	span.SetAttributes(
		attribute.String("httpctx.framework", snapshot.Framework),
		attribute.String("httpctx.pattern", snapshot.Pattern),
		attribute.Int("httpctx.properties", len(values)),
	)

	return snapshot, nil
}

// Property returns the request property stored under key.
func (s *ContextService) Property(ctx context.Context, key string) (any, error) {
	props, err := s.reg.Properties(ctx)
	if err != nil {
		return nil, err
	}

	value, ok := props.Get(key)
	if !ok {
		return nil, domain.NewNotFoundError("property", key)
	}

	return value, nil
}

// SetProperty stores value under key in the request's property bag.
func (s *ContextService) SetProperty(ctx context.Context, key string, value any) error {
	if key == "" {
		return domain.NewValidationError("key", "must not be empty")
	}

	if _, reserved := reservedProperties[key]; reserved {
		return domain.NewConflictError("property", key+" is set by the server")
	}

	props, err := s.reg.Properties(ctx)
	if err != nil {
		return err
	}

	props.Set(key, value)

	logging.FromContext(ctx).DebugContext(ctx, "request property set",
		slog.String("key", key),
	)

	return nil
}

// SelfCheck runs the isolation probe on the service's pool.
func (s *ContextService) SelfCheck(ctx context.Context, units, reads int) (*domain.SelfCheckReport, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ContextService.SelfCheck")
	defer span.End()

	span.SetAttributes(
		attribute.Int("httpctx.selfcheck.units", units),
		attribute.Int("httpctx.selfcheck.reads", reads),
	)

	report, err := s.pool.SelfCheck(ctx, units, reads)
	if err != nil {
		s.logger.ErrorContext(ctx, "self-check failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("httpctx.selfcheck.mismatches", report.Mismatches),
		attribute.Int64("httpctx.selfcheck.leaks", report.Leaks),
	)

	return report, nil
}

func firstValues(query map[string][]string) map[string]string {
	if len(query) == 0 {
		return nil
	}

	out := make(map[string]string, len(query))
	for k, v := range query {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}

	return out
}

func stringValue(values map[string]any, key string) string {
	s, _ := values[key].(string)
	return s
}
