package context

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/jsamuelsen/httpcontext-service/internal/domain"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/logging"
)

// Accessor names reported in IllegalStateError.
const (
	AccessorURIInfo    = "URIInfo"
	AccessorRequest    = "Request"
	AccessorResponse   = "Response"
	AccessorProperties = "Properties"
)

type ctxKey struct{}

// slot is the storage cell of one execution unit. It travels inside the
// unit's context.Context, so no two units ever address the same slot.
type slot struct {
	current  atomic.Pointer[HTTPContext]
	released atomic.Bool
}

// slotFrom returns the open slot carried by ctx, or nil.
func slotFrom(ctx context.Context) *slot {
	if ctx == nil {
		return nil
	}

	s, ok := ctx.Value(ctxKey{}).(*slot)
	if !ok || s.released.Load() {
		return nil
	}

	return s
}

// Observer receives registry lifecycle events. Implementations must be safe
// for concurrent use.
type Observer interface {
	// UnitStarted is called when Begin opens an execution unit.
	UnitStarted()

	// UnitReleased is called once when an execution unit is released.
	UnitReleased()

	// IllegalAccess is called when a typed accessor finds nothing bound.
	IllegalAccess(accessor string)
}

type noopObserver struct{}

func (noopObserver) UnitStarted()         {}
func (noopObserver) UnitReleased()        {}
func (noopObserver) IllegalAccess(string) {}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver registers an observer for registry events.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observer = o
		}
	}
}

// Registry associates each execution unit with its bound HTTPContext.
// The zero value is not usable; create one with NewRegistry and share it.
type Registry struct {
	observer Observer
}

// NewRegistry creates a registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{observer: noopObserver{}}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Begin opens a new execution unit on top of ctx. The returned release func
// unbinds the unit; it is safe to call more than once. Contexts derived from
// the returned one see no binding after release, even if they outlive it.
func (r *Registry) Begin(ctx context.Context) (context.Context, func()) {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &slot{}
	r.observer.UnitStarted()
	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "execution unit opened")

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.released.Store(true)
			s.current.Store(nil)
			r.observer.UnitReleased()
			logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "execution unit released")
		})
	}

	return context.WithValue(ctx, ctxKey{}, s), release
}

// Set binds hc to the execution unit carried by ctx, replacing any previous
// binding. If ctx carries no open unit, a new one is attached to a derived
// context. Callers must continue with the returned context. A nil hc is
// ignored; use Unbind to clear a binding.
func (r *Registry) Set(ctx context.Context, hc *HTTPContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	if hc == nil {
		return ctx
	}

	s := slotFrom(ctx)
	if s == nil {
		s = &slot{}
		ctx = context.WithValue(ctx, ctxKey{}, s)
	}

	s.current.Store(hc)

	return ctx
}

// Unbind clears the binding of the execution unit carried by ctx. The unit
// stays open and may be bound again with Set.
func (r *Registry) Unbind(ctx context.Context) {
	if s := slotFrom(ctx); s != nil {
		s.current.Store(nil)
	}
}

// Get returns the HTTPContext bound to the execution unit carried by ctx.
// It never fails; ok is false when nothing is bound.
func (r *Registry) Get(ctx context.Context) (*HTTPContext, bool) {
	s := slotFrom(ctx)
	if s == nil {
		return nil, false
	}

	hc := s.current.Load()

	return hc, hc != nil
}

// URIInfo returns the bound exchange's route information.
func (r *Registry) URIInfo(ctx context.Context) (*URIInfo, error) {
	hc, ok := r.Get(ctx)
	if !ok || hc.uriInfo == nil {
		return nil, r.illegalState(ctx, AccessorURIInfo)
	}

	return hc.uriInfo, nil
}

// Request returns the bound exchange's inbound request.
func (r *Registry) Request(ctx context.Context) (*http.Request, error) {
	hc, ok := r.Get(ctx)
	if !ok || hc.request == nil {
		return nil, r.illegalState(ctx, AccessorRequest)
	}

	return hc.request, nil
}

// Response returns the bound exchange's response writer.
func (r *Registry) Response(ctx context.Context) (http.ResponseWriter, error) {
	hc, ok := r.Get(ctx)
	if !ok || hc.response == nil {
		return nil, r.illegalState(ctx, AccessorResponse)
	}

	return hc.response, nil
}

// Properties returns the bound exchange's property bag.
func (r *Registry) Properties(ctx context.Context) (*Properties, error) {
	hc, ok := r.Get(ctx)
	if !ok || hc.properties == nil {
		return nil, r.illegalState(ctx, AccessorProperties)
	}

	return hc.properties, nil
}

func (r *Registry) illegalState(ctx context.Context, accessor string) error {
	r.observer.IllegalAccess(accessor)

	if ctx == nil {
		ctx = context.Background()
	}

	logging.FromContext(ctx).WarnContext(ctx, "request context accessed outside request scope",
		slog.String("accessor", accessor),
	)

	return domain.NewIllegalStateError(accessor)
}
