package dto

import (
	"time"

	"github.com/soundprediction/triago/pkg/types"
)

// IncidentRequest represents an inbound incident report.
type IncidentRequest struct {
	Type        string `json:"type" binding:"required"`
	Severity    string `json:"severity,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToReport converts the request into an engine incident report.
// Unrecognized types map to IncidentUnknown; severity is passed through
// for the engine to validate.
func (r *IncidentRequest) ToReport() *types.IncidentReport {
	return &types.IncidentReport{
		Type:        types.ParseIncidentType(r.Type),
		Severity:    types.SeverityLevel(r.Severity),
		Location:    r.Location,
		Description: r.Description,
		ReportedAt:  time.Now().UTC(),
	}
}

// DecisionRequest represents an operator decision on a pending alert.
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// PendingAlertsResponse lists undecided alerts, oldest first.
type PendingAlertsResponse struct {
	Alerts []*types.HospitalAlert `json:"alerts"`
	Total  int                    `json:"total"`
}
