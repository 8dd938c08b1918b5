package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/httpcontext-service/internal/ports"
)

// ContextHandler exposes the request context bound to the current request.
type ContextHandler struct {
	service ports.RequestContextService
}

// NewContextHandler creates a new context handler.
func NewContextHandler(service ports.RequestContextService) *ContextHandler {
	return &ContextHandler{
		service: service,
	}
}

// GetContext handles GET /api/v1/context
// Returns a snapshot of the request as seen through the registry.
//
// @Summary Describe the bound request
// @Tags context
// @Produce json
// @Success 200 {object} domain.ExchangeSnapshot
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/context [get]
func (h *ContextHandler) GetContext(c *gin.Context) {
	snapshot, err := h.service.Describe(c.Request.Context())
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetProperty handles GET /api/v1/context/properties/:key
//
// @Summary Read a request property
// @Tags context
// @Produce json
// @Param key path string true "Property key"
// @Success 200 {object} dto.PropertyResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/context/properties/{key} [get]
func (h *ContextHandler) GetProperty(c *gin.Context) {
	var uri dto.PropertyKeyURI
	if err := dto.BindURIAndValidate(c, &uri); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	value, err := h.service.Property(c.Request.Context(), uri.Key)
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PropertyResponse{Key: uri.Key, Value: value})
}

// PutProperty handles PUT /api/v1/context/properties/:key
// Stores a value in the property bag of the current request. Keys seeded by
// the server are rejected with 409.
//
// @Summary Set a request property
// @Tags context
// @Accept json
// @Produce json
// @Param key path string true "Property key"
// @Param body body dto.SetPropertyRequest true "Property value"
// @Success 200 {object} dto.PropertyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/context/properties/{key} [put]
func (h *ContextHandler) PutProperty(c *gin.Context) {
	var uri dto.PropertyKeyURI
	if err := dto.BindURIAndValidate(c, &uri); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	var body dto.SetPropertyRequest
	if err := dto.BindAndValidate(c, &body); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	if err := h.service.SetProperty(c.Request.Context(), uri.Key, body.Value); err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PropertyResponse{Key: uri.Key, Value: body.Value})
}

// RegisterContextRoutes registers context routes on the given router group.
// The group must run the request binding middleware.
func (h *ContextHandler) RegisterContextRoutes(rg *gin.RouterGroup) {
	ctx := rg.Group("/context")
	ctx.GET("", h.GetContext)
	ctx.GET("/properties/:key", h.GetProperty)
	ctx.PUT("/properties/:key", h.PutProperty)
}
