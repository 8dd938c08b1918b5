package binding

import (
	"github.com/gin-gonic/gin"

	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
)

// Gin binds the request context for gin routes. c.Request is replaced with
// the request carrying the execution unit.
func Gin(reg *appcontext.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}

		req, leave := enter(reg, c.Request, c.Writer, FrameworkGin, c.FullPath(), params)
		defer leave()

		c.Request = req
		c.Next()
	}
}
