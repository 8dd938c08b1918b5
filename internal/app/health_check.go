package app

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/httpcontext-service/internal/domain"
)

// Probe size of the readiness self-check.
const (
	healthCheckUnits = 16
	healthCheckReads = 8
)

// RegistryHealthChecker reports the request context registry as unhealthy
// when a small self-check observes cross-unit leakage.
type RegistryHealthChecker struct {
	pool *UnitPool
}

// NewRegistryHealthChecker creates a checker that probes through pool.
func NewRegistryHealthChecker(pool *UnitPool) *RegistryHealthChecker {
	return &RegistryHealthChecker{pool: pool}
}

// Name implements ports.HealthChecker.
func (c *RegistryHealthChecker) Name() string {
	return "request-context"
}

// Check implements ports.HealthChecker.
func (c *RegistryHealthChecker) Check(ctx context.Context) error {
	report, err := c.pool.SelfCheck(ctx, healthCheckUnits, healthCheckReads)
	if err != nil {
		return err
	}

	if !report.Healthy() {
		return domain.NewUnavailableError(c.Name(),
			fmt.Sprintf("%d mismatches, %d leaks", report.Mismatches, report.Leaks))
	}

	return nil
}
