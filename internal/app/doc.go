// Package app contains the application services built on the request
// context registry.
//
// ContextService reads and updates the request bound to the caller's
// execution unit; it never sees the router that dispatched the request.
// UnitPool runs work concurrently with one execution unit per job, and its
// SelfCheck probes that concurrent units never observe each other's binding.
//
// What does NOT belong here:
//   - HTTP or router specifics (that's adapters)
//   - Registry storage (that's app/context)
package app
