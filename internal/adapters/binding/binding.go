// Package binding is the dispatch layer of the request context registry.
//
// Each middleware opens an execution unit when a request enters its
// framework, binds an HTTPContext describing the matched route, and releases
// the unit when the request leaves. When a request is forwarded from one
// framework into another, the inner middleware rebinds on the same unit and
// restores the outer binding on the way out.
package binding

import (
	"net/http"

	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
)

// Framework names recorded in URIInfo.
const (
	FrameworkGin    = "gin"
	FrameworkChi    = "chi"
	FrameworkMux    = "mux"
	FrameworkEcho   = "echo"
	FrameworkStdLib = "stdlib"
)

// enter binds a new exchange for r and returns the request downstream
// stages must see, plus the func that undoes the binding.
//
// If the unit already has an exchange bound, the new one shares its
// properties and the returned func restores it. Otherwise a unit is opened
// and the returned func releases it.
func enter(
	reg *appcontext.Registry,
	r *http.Request,
	w http.ResponseWriter,
	framework, pattern string,
	params map[string]string,
) (*http.Request, func()) {
	ctx := r.Context()

	var leave func()

	outer, nested := reg.Get(ctx)
	if nested {
		leave = func() { reg.Set(ctx, outer) }
	} else {
		ctx, leave = reg.Begin(ctx)
	}

	req := r.WithContext(ctx)

	hc := appcontext.NewHTTPContext(req, w, appcontext.NewURIInfo(framework, req, pattern, params))
	if nested {
		hc.WithProperties(outer.Properties())
	}

	reg.Set(ctx, hc)

	return req, leave
}
