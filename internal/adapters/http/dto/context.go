package dto

import (
	"strconv"

	"github.com/jsamuelsen/httpcontext-service/internal/domain"
)

// MaxSelfCheckReads bounds units*reads for one on-demand self-check.
const MaxSelfCheckReads = 1_000_000

// PropertyKeyURI binds the :key path parameter of the property endpoints.
type PropertyKeyURI struct {
	Key string `uri:"key" json:"key" validate:"notempty,max=128,propkey"`
}

// SetPropertyRequest is the body of PUT /api/v1/context/properties/:key.
type SetPropertyRequest struct {
	Value any `json:"value" validate:"required"`
}

// PropertyResponse is a single property of the bound request.
type PropertyResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SelfCheckQuery sizes an on-demand registry self-check. Zero fields take
// the configured defaults.
type SelfCheckQuery struct {
	Units int `form:"units" json:"units" validate:"omitempty,min=1,max=10000"`
	Reads int `form:"reads" json:"reads" validate:"omitempty,min=1,max=1000"`
}

// Validate rejects probes whose total read count exceeds MaxSelfCheckReads.
func (q *SelfCheckQuery) Validate() error {
	if q.Units*q.Reads > MaxSelfCheckReads {
		return domain.NewValidationError("units", "units*reads must be at most "+strconv.Itoa(MaxSelfCheckReads))
	}

	return nil
}
