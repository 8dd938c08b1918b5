package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/dto"
	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
)

// SeedProperties stores the request ID, correlation ID and arrival time in
// the bound request's property bag. It must run after binding.Gin; a request
// with nothing bound is aborted with an illegal-state error.
//
// The arrival time is recorded once per exchange. A later seeding stage
// sharing the same properties keeps the first value.
func SeedProperties(reg *appcontext.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		props, err := reg.Properties(ctx)
		if err != nil {
			dto.AbortWithError(c, err)
			return
		}

		if _, err := props.GetOrFetch(ctx, appcontext.PropertyReceivedAt, receivedNow); err != nil {
			dto.AbortWithError(c, err)
			return
		}

		if id := RequestIDFromContext(ctx); id != "" {
			props.Set(appcontext.PropertyRequestID, id)
		}

		if id := CorrelationIDFromContext(ctx); id != "" {
			props.Set(appcontext.PropertyCorrelationID, id)
		}

		c.Next()
	}
}

func receivedNow(context.Context) (any, error) {
	return time.Now().UTC(), nil
}
