package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
)

// UnitPool runs jobs concurrently on a bounded set of workers, each job in
// its own execution unit of the registry.
//
// Example:
//
//	pool := app.NewUnitPool(reg, 8)
//	results, err := app.Collect(ctx, pool, fns...)
type UnitPool struct {
	reg     *appcontext.Registry
	workers int
}

// NewUnitPool creates a pool over reg. Workers below one are raised to one.
func NewUnitPool(reg *appcontext.Registry, workers int) *UnitPool {
	if reg == nil {
		panic("app: NewUnitPool requires a registry")
	}

	return &UnitPool{reg: reg, workers: max(workers, 1)}
}

// Registry returns the registry the pool opens units on.
func (p *UnitPool) Registry() *appcontext.Registry {
	return p.reg
}

// Workers returns the concurrency bound.
func (p *UnitPool) Workers() int {
	return p.workers
}

// Run executes every job inside a fresh execution unit and returns on the
// first error. Each unit is released when its job returns.
func (p *UnitPool) Run(ctx context.Context, jobs ...func(context.Context) error) error {
	return FanOut(ctx, p.workers, jobs, func(ctx context.Context, job func(context.Context) error) error {
		unitCtx, release := p.reg.Begin(ctx)
		defer release()

		return job(unitCtx)
	})
}

// Collect runs fns on the pool, each in its own execution unit, and returns
// their results in order.
func Collect[T any](ctx context.Context, p *UnitPool, fns ...func(context.Context) (T, error)) ([]T, error) {
	results := make([]T, len(fns))
	jobs := make([]func(context.Context) error, len(fns))

	for i, fn := range fns {
		jobs[i] = func(ctx context.Context) error {
			result, err := fn(ctx)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		}
	}

	if err := p.Run(ctx, jobs...); err != nil {
		return nil, fmt.Errorf("collect failed: %w", err)
	}

	return results, nil
}

// FanOut distributes work items across a fixed number of workers.
// Each worker processes items sequentially, but workers run in parallel.
func FanOut[T any](ctx context.Context, workers int, items []T, fn func(context.Context, T) error) error {
	g, ctx := errgroup.WithContext(ctx)
	itemChan := make(chan T)

	for range max(workers, 1) {
		g.Go(func() error {
			for item := range itemChan {
				if err := fn(ctx, item); err != nil {
					return err
				}
			}

			return nil
		})
	}

	g.Go(func() error {
		defer close(itemChan)

		for _, item := range items {
			select {
			case itemChan <- item:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("fan out failed: %w", err)
	}

	return nil
}
