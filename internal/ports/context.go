package ports

import (
	"context"

	"github.com/jsamuelsen/httpcontext-service/internal/domain"
)

// RequestContextService exposes the request bound to ctx to the HTTP layer.
// All methods fail with domain.ErrIllegalState when ctx carries no bound
// request.
type RequestContextService interface {
	// Describe returns a snapshot of the bound request.
	Describe(ctx context.Context) (*domain.ExchangeSnapshot, error)

	// Property returns one request property.
	// Returns domain.ErrNotFound if the key is not set.
	Property(ctx context.Context, key string) (any, error)

	// SetProperty stores a request property.
	// Returns domain.ErrValidation for an empty key and domain.ErrConflict
	// for keys owned by the server.
	SetProperty(ctx context.Context, key string, value any) error
}

// SelfChecker runs the registry isolation probe on demand.
type SelfChecker interface {
	SelfCheck(ctx context.Context, units, reads int) (*domain.SelfCheckReport, error)
}
