package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/logging"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/telemetry"
)

// Recovery returns middleware that turns a panic into a 500 response with
// the standard error envelope. The panic and its stack are logged at error
// level. Apply it before every middleware whose panics it should catch.
func Recovery() gin.HandlerFunc {
	return RecoveryWithHandler(nil)
}

// RecoveryWithHandler is Recovery with an extra callback that receives the
// recovered value and stack, e.g. for crash reporting.
func RecoveryWithHandler(onPanic func(err any, stack []byte)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			stack := debug.Stack()
			if onPanic != nil {
				onPanic(r, stack)
			}

			ctx := c.Request.Context()
			traceID := telemetry.TraceID(ctx)

			logging.FromContext(ctx).Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(stack)),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.String("trace_id", traceID),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			errResp := dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred")
			errResp.TraceID = traceID

			c.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
		}()

		c.Next()
	}
}
