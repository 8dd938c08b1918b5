package domain

import "time"

// SelfCheckReport summarizes a concurrent isolation probe of the request
// context registry. A healthy registry reports zero mismatches and leaks.
type SelfCheckReport struct {
	Units   int `json:"units"`
	Reads   int `json:"reads"`
	Workers int `json:"workers"`

	// Mismatches counts reads that observed another unit's binding, or a
	// rebind that was not visible to the unit.
	Mismatches int64 `json:"mismatches"`

	// Leaks counts units that started with a binding already present or
	// still saw their binding after release.
	Leaks int64 `json:"leaks"`

	Duration time.Duration `json:"duration"`
}

// Healthy reports whether the probe found no isolation failures.
func (r *SelfCheckReport) Healthy() bool {
	return r.Mismatches == 0 && r.Leaks == 0
}
