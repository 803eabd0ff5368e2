package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/triago"
	"github.com/soundprediction/triago/pkg/server/dto"
	"github.com/soundprediction/triago/pkg/types"
)

// IncidentHandler handles incident orchestration and alert decisions.
type IncidentHandler struct {
	triago triago.Triago
	logger *slog.Logger
}

// NewIncidentHandler creates a new incident handler.
func NewIncidentHandler(client triago.Triago, logger *slog.Logger) *IncidentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IncidentHandler{
		triago: client,
		logger: logger,
	}
}

// Report handles POST /api/v1/incidents.
func (h *IncidentHandler) Report(c *gin.Context) {
	var req dto.IncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	response, err := h.triago.HandleIncident(c.Request.Context(), req.ToReport())
	if err != nil {
		if response != nil {
			h.logger.Error("incident handled but alert not persisted", "error", err)
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// PendingAlerts handles GET /api/v1/alerts/pending.
func (h *IncidentHandler) PendingAlerts(c *gin.Context) {
	pending, err := h.triago.PendingAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PendingAlertsResponse{
		Alerts: pending,
		Total:  len(pending),
	})
}

// Decide handles POST /api/v1/alerts/:id/decision.
func (h *IncidentHandler) Decide(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	status, err := types.ParseAlertStatus(req.Decision)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if status == types.AlertPending {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "decision must be acknowledged or dismissed"})
		return
	}

	decided, err := h.triago.DecideAlert(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, decided)
}
