package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegistryMetrics exports request context registry events as Prometheus
// collectors. It satisfies the registry's Observer interface.
type RegistryMetrics struct {
	unitsStarted  prometheus.Counter
	unitsReleased prometheus.Counter
	activeUnits   prometheus.Gauge
	illegalAccess *prometheus.CounterVec
}

// NewRegistryMetrics creates the collectors and registers them with reg.
func NewRegistryMetrics(reg prometheus.Registerer) (*RegistryMetrics, error) {
	m := &RegistryMetrics{
		unitsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "httpctx",
			Subsystem: "registry",
			Name:      "units_started_total",
			Help:      "Execution units opened by the request context registry.",
		}),
		unitsReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "httpctx",
			Subsystem: "registry",
			Name:      "units_released_total",
			Help:      "Execution units released by the request context registry.",
		}),
		activeUnits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "httpctx",
			Subsystem: "registry",
			Name:      "active_units",
			Help:      "Execution units currently open.",
		}),
		illegalAccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "httpctx",
			Subsystem: "registry",
			Name:      "illegal_access_total",
			Help:      "Typed accessor calls made with no request context bound.",
		}, []string{"accessor"}),
	}

	for _, c := range []prometheus.Collector{m.unitsStarted, m.unitsReleased, m.activeUnits, m.illegalAccess} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// UnitStarted records an opened execution unit.
func (m *RegistryMetrics) UnitStarted() {
	m.unitsStarted.Inc()
	m.activeUnits.Inc()
}

// UnitReleased records a released execution unit.
func (m *RegistryMetrics) UnitReleased() {
	m.unitsReleased.Inc()
	m.activeUnits.Dec()
}

// IllegalAccess records an accessor call outside request scope.
func (m *RegistryMetrics) IllegalAccess(accessor string) {
	m.illegalAccess.WithLabelValues(accessor).Inc()
}
