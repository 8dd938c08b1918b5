package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/httpcontext-service/internal/domain"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/logging"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/telemetry"
)

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, err.Error())

	case domain.IsIllegalState(err):
		// Reaching request state outside a bound request is a server bug.
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeIllegalState,
			"request context is not available",
		)

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}

// TraceID returns the trace ID of the request span, or "".
func TraceID(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}

	return telemetry.TraceID(c.Request.Context())
}

// RespondWithError writes an error response to the gin.Context.
// It maps domain errors to HTTP responses and includes the trace ID if available.
func RespondWithError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = TraceID(c)

	if status == http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "internal error",
			slog.Any("error", err),
			slog.String("trace_id", errResp.TraceID),
		)
	}

	c.JSON(status, errResp)
}

// RespondWithErrorCode writes an error response with a specific error code.
// Use this for adapter-level errors that don't originate from domain errors.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(TraceID(c)))
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fieldErrors)

	c.JSON(http.StatusBadRequest, errResp.WithTraceID(TraceID(c)))
}

// RespondWithBindError writes the response for an error returned by one of
// the Bind*AndValidate helpers.
func RespondWithBindError(c *gin.Context, err error) {
	switch {
	case IsValidationError(err):
		RespondWithValidationErrors(c, ValidationErrors(err))
	case domain.IsValidation(err):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			err = validationErr
		}

		RespondWithError(c, err)
	default:
		RespondWithErrorCode(c, ErrorCodeBadRequest, err.Error())
	}
}

// AbortWithError aborts the request chain and writes an error response.
func AbortWithError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)

	c.AbortWithStatusJSON(status, errResp.WithTraceID(TraceID(c)))
}
