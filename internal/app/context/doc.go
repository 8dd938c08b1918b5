// Package context binds one HTTPContext to each in-flight request and gives
// application code scoped, typed access to it.
//
// # Execution Units
//
// An execution unit is one dispatched request. The dispatch layer opens a
// unit with Begin, binds the request's HTTPContext with Set, and releases the
// unit when the request completes:
//
//	ctx, release := registry.Begin(r.Context())
//	defer release()
//
//	hc := context.NewHTTPContext(r.WithContext(ctx), w, uri)
//	ctx = registry.Set(ctx, hc)
//
// Every stage that holds a context derived from ctx sees the same binding.
// Two requests never share a unit, so they never see each other's binding.
//
// # Scoped Accessors
//
// Get reports absence with a boolean. URIInfo, Request, Response and
// Properties instead fail with a domain.IllegalStateError when nothing is
// bound, so callers deep in application code get one well-defined failure:
//
//	resp, err := registry.Response(ctx)
//	if err != nil {
//	    return err // domain.IsIllegalState(err) == true
//	}
//
// # Rebinding
//
// Calling Set again on the same unit replaces the binding for every holder of
// the unit's context. Nested or forwarded dispatch uses this to expose its own
// route information while the inner handler runs.
package context
