package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"

	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
	"github.com/jsamuelsen/httpcontext-service/internal/domain"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/logging"
)

const selfCheckFramework = "selfcheck"

// SelfCheck probes the registry's isolation. It opens units execution units
// on the pool, binds a distinct synthetic exchange in each, and reads it back
// reads times while the other units do the same. Every unit also rebinds once
// and checks that a goroutine sharing its context sees the new binding. After
// all units are released their contexts must report nothing bound.
func (p *UnitPool) SelfCheck(ctx context.Context, units, reads int) (*domain.SelfCheckReport, error) {
	if units < 1 {
		return nil, domain.NewValidationError("units", "must be at least 1")
	}

	if reads < 1 {
		return nil, domain.NewValidationError("reads", "must be at least 1")
	}

	fns := make([]func(context.Context) (unitOutcome, error), units)
	for i := range units {
		fns[i] = func(ctx context.Context) (unitOutcome, error) {
			return p.checkUnit(ctx, reads)
		}
	}

	start := time.Now()

	outcomes, err := Collect(ctx, p, fns...)
	if err != nil {
		return nil, fmt.Errorf("running self-check: %w", err)
	}

	var mismatches, leaks int64

	for _, o := range outcomes {
		mismatches += o.mismatches
		if o.leaked {
			leaks++
		}

		// Released units must report nothing bound.
		if _, ok := p.reg.Get(o.ctx); ok {
			leaks++
		}
	}

	report := &domain.SelfCheckReport{
		Units:      units,
		Reads:      reads,
		Workers:    p.workers,
		Mismatches: mismatches,
		Leaks:      leaks,
		Duration:   time.Since(start),
	}

	logger := logging.FromContext(ctx)
	attrs := []any{
		slog.Int("units", report.Units),
		slog.Int("reads", report.Reads),
		slog.Int("workers", report.Workers),
		slog.Int64("mismatches", report.Mismatches),
		slog.Int64("leaks", report.Leaks),
		slog.Duration("duration", report.Duration),
	}

	if report.Healthy() {
		logger.InfoContext(ctx, "self-check completed", attrs...)
	} else {
		logger.WarnContext(ctx, "self-check found isolation failures", attrs...)
	}

	return report, nil
}

// unitOutcome is what one self-check unit observed.
type unitOutcome struct {
	mismatches int64
	// leaked is set when the unit started with an exchange already bound.
	leaked bool
	// ctx is the unit's context after binding, checked again once released.
	ctx context.Context
}

// checkUnit binds a synthetic exchange in the unit behind ctx, reads it back
// reads times and rebinds once.
func (p *UnitPool) checkUnit(ctx context.Context, reads int) (unitOutcome, error) {
	var out unitOutcome

	if _, ok := p.reg.Get(ctx); ok {
		out.leaked = true
	}

	id := uuid.NewString()

	hc, err := probeExchange(ctx, id)
	if err != nil {
		return out, err
	}

	ctx = p.reg.Set(ctx, hc)
	out.ctx = ctx

	for range reads {
		info, err := p.reg.URIInfo(ctx)
		if err != nil || info.Param("id") != id {
			out.mismatches++
		}

		runtime.Gosched()
	}

	rebound, err := probeExchange(ctx, id)
	if err != nil {
		return out, err
	}

	ctx = p.reg.Set(ctx, rebound.WithProperties(hc.Properties()))

	seen := make(chan *appcontext.HTTPContext, 1)
	go func() {
		current, _ := p.reg.Get(ctx)
		seen <- current
	}()

	if current := <-seen; current != rebound {
		out.mismatches++
	}

	return out, nil
}

// probeExchange builds a synthetic exchange whose route parameter carries id.
func probeExchange(ctx context.Context, id string) (*appcontext.HTTPContext, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/selfcheck/"+id, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building probe request: %w", err)
	}

	uri := appcontext.NewURIInfo(selfCheckFramework, req, "/selfcheck/{id}", map[string]string{"id": id})

	return appcontext.NewHTTPContext(req, newDiscardWriter(), uri), nil
}

// discardWriter is the response side of a probe exchange.
type discardWriter struct {
	header http.Header
}

func newDiscardWriter() *discardWriter {
	return &discardWriter{header: make(http.Header)}
}

func (w *discardWriter) Header() http.Header { return w.header }

func (w *discardWriter) Write(b []byte) (int, error) { return len(b), nil }

func (w *discardWriter) WriteHeader(int) {}
