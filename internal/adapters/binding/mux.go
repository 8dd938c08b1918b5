package binding

import (
	"maps"
	"net/http"

	"github.com/gorilla/mux"

	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
)

// Mux binds the request context for gorilla/mux routes. Router.Use
// middleware runs after a route matched, so the template is available.
func Mux(reg *appcontext.Registry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var pattern string

			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					pattern = tpl
				}
			}

			req, leave := enter(reg, r, w, FrameworkMux, pattern, maps.Clone(mux.Vars(r)))
			defer leave()

			next.ServeHTTP(w, req)
		})
	}
}
