package binding

import (
	"net/http"
	"strings"

	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
)

// StdLib binds the request context for handlers registered on an
// http.ServeMux. Wrap each handler, not the mux: the matched pattern and
// path values are only set on the request the mux passes to the handler.
func StdLib(reg *appcontext.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			names := wildcardNames(r.Pattern)

			params := make(map[string]string, len(names))
			for _, name := range names {
				params[name] = r.PathValue(name)
			}

			req, leave := enter(reg, r, w, FrameworkStdLib, r.Pattern, params)
			defer leave()

			next.ServeHTTP(w, req)
		})
	}
}

// wildcardNames lists the wildcard names of a ServeMux pattern such as
// "GET /files/{dir}/{rest...}". The {$} anchor is not a wildcard.
func wildcardNames(pattern string) []string {
	var names []string

	for {
		start := strings.IndexByte(pattern, '{')
		if start < 0 {
			return names
		}

		end := strings.IndexByte(pattern[start:], '}')
		if end < 0 {
			return names
		}

		name := strings.TrimSuffix(pattern[start+1:start+end], "...")
		if name != "" && name != "$" {
			names = append(names, name)
		}

		pattern = pattern[start+end+1:]
	}
}
