package binding

import (
	"github.com/labstack/echo/v4"

	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
)

// Echo binds the request context for echo routes. Register it with e.Use,
// which runs after routing; e.Pre would run before c.Path is known.
func Echo(reg *appcontext.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			names := c.ParamNames()
			values := c.ParamValues()

			params := make(map[string]string, len(names))
			for i, name := range names {
				if i < len(values) {
					params[name] = values[i]
				}
			}

			req, leave := enter(reg, c.Request(), c.Response(), FrameworkEcho, c.Path(), params)
			defer leave()

			c.SetRequest(req)

			return next(c)
		}
	}
}
