package binding

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
)

// Chi binds the request context for chi routes. Register it inline with
// r.With so it runs after chi has matched the route; middleware added with
// r.Use runs before matching and would see an incomplete pattern.
func Chi(reg *appcontext.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var pattern string

			params := map[string]string{}

			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				pattern = rctx.RoutePattern()

				for i, key := range rctx.URLParams.Keys {
					params[key] = rctx.URLParams.Values[i]
				}
			}

			req, leave := enter(reg, r, w, FrameworkChi, pattern, params)
			defer leave()

			next.ServeHTTP(w, req)
		})
	}
}
