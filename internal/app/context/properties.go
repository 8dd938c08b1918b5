package context

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Property keys seeded by the HTTP layer for every bound request.
const (
	PropertyRequestID     = "request_id"
	PropertyCorrelationID = "correlation_id"
	PropertyReceivedAt    = "received_at"
)

// Properties is a string-keyed bag of values passed between handling stages
// of one request. Safe for concurrent use.
type Properties struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewProperties creates an empty property bag.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]any)}
}

// Set stores value under key, replacing any existing value.
func (p *Properties) Set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.values == nil {
		p.values = make(map[string]any)
	}

	p.values[key] = value
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.values[key]

	return v, ok
}

// Delete removes key.
func (p *Properties) Delete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.values, key)
}

// Len returns the number of stored keys.
func (p *Properties) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.values)
}

// Keys returns the stored keys in sorted order.
func (p *Properties) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return slices.Sorted(maps.Keys(p.values))
}

// Snapshot returns a copy of the stored values.
func (p *Properties) Snapshot() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return maps.Clone(p.values)
}

// GetOrFetch returns the value under key, or runs fetchFn and stores its
// result. Errors are not cached. If two stages fetch the same key
// concurrently, the first stored value wins and both receive it.
func (p *Properties) GetOrFetch(
	ctx context.Context,
	key string,
	fetchFn func(ctx context.Context) (any, error),
) (any, error) {
	// Fast path
	if v, ok := p.Get(key); ok {
		return v, nil
	}

	value, err := fetchFn(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.values[key]; ok {
		return existing, nil
	}

	if p.values == nil {
		p.values = make(map[string]any)
	}

	p.values[key] = value

	return value, nil
}
