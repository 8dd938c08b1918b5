package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/dto"
)

// SelfCheck handles GET /-/selfcheck.
// Runs the registry isolation probe and returns its report: 200 when no
// mismatch or leak was found, 503 otherwise.
//
// @Summary Run the request context self-check
// @Tags health
// @Produce json
// @Param units query int false "Concurrent execution units"
// @Param reads query int false "Reads per unit"
// @Success 200 {object} domain.SelfCheckReport
// @Failure 503 {object} domain.SelfCheckReport
// @Router /-/selfcheck [get]
func (h *HealthHandler) SelfCheck(c *gin.Context) {
	var q dto.SelfCheckQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	if q.Units == 0 {
		q.Units = h.defaultUnits
	}

	if q.Reads == 0 {
		q.Reads = h.defaultReads
	}

	// Configured defaults are subject to the same limits as the query.
	if err := dto.Validate(&q); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	report, err := h.selfChecker.SelfCheck(c.Request.Context(), q.Units, q.Reads)
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, report)
}
