package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin/render"

	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/dto"
	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/logging"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/telemetry"
)

// MediaTypeJSON is the media type of every resource response.
const MediaTypeJSON = "application/json; charset=utf-8"

// MediaType sets the Content-Type of w. Call it before the first write.
func MediaType(w http.ResponseWriter, mediaType string) {
	w.Header().Set("Content-Type", mediaType)
}

// ResourceResponse describes how a dispatched request was matched.
type ResourceResponse struct {
	Framework string            `json:"framework"`
	Method    string            `json:"method"`
	Path      string            `json:"path"`
	Pattern   string            `json:"pattern"`
	Name      string            `json:"name,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// ResourceHandler serves the routes of the framework dispatcher. It is a plain
// http.Handler that learns everything about the request from the registry,
// so the same handler runs unchanged behind chi, mux, echo and ServeMux.
type ResourceHandler struct {
	reg *appcontext.Registry
}

// NewResourceHandler creates a resource handler reading from reg.
func NewResourceHandler(reg *appcontext.Registry) *ResourceHandler {
	return &ResourceHandler{reg: reg}
}

// ServeHTTP implements http.Handler. The response is written through the
// registry's bound response writer, not the w passed in.
func (h *ResourceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.reg.Response(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	info, err := h.reg.URIInfo(ctx)
	if err != nil {
		writeError(ctx, resp, err)
		return
	}

	req, err := h.reg.Request(ctx)
	if err != nil {
		writeError(ctx, resp, err)
		return
	}

	props, err := h.reg.Properties(ctx)
	if err != nil {
		writeError(ctx, resp, err)
		return
	}

	body := ResourceResponse{
		Framework: info.Framework,
		Method:    req.Method,
		Path:      info.Path,
		Pattern:   info.Pattern,
		Name:      info.Param("name"),
		Params:    info.Params,
	}

	if id, ok := props.Get(appcontext.PropertyRequestID); ok {
		body.RequestID, _ = id.(string)
	}

	writeJSON(ctx, resp, http.StatusOK, body)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, errResp := dto.MapDomainError(err)
	errResp.TraceID = telemetry.TraceID(ctx)

	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).ErrorContext(ctx, "internal error",
			slog.Any("error", err),
			slog.String("trace_id", errResp.TraceID),
		)
	}

	writeJSON(ctx, w, status, errResp)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	MediaType(w, MediaTypeJSON)
	w.WriteHeader(status)

	if err := (render.JSON{Data: body}).Render(w); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "writing resource response",
			slog.Any("error", err),
		)
	}
}
