package types

import (
	"fmt"
	"strings"
	"time"
)

// IncidentType classifies a mass-casualty or emergency event.
type IncidentType string

const (
	IncidentFire             IncidentType = "fire"
	IncidentRoadAccident     IncidentType = "road_accident"
	IncidentBuildingCollapse IncidentType = "building_collapse"
	IncidentChemicalSpill    IncidentType = "chemical_spill"
	IncidentGasLeak          IncidentType = "gas_leak"
	IncidentStampede         IncidentType = "stampede"
	IncidentTerrorAttack     IncidentType = "terror_attack"
	IncidentTrainAccident    IncidentType = "train_accident"
	IncidentFlood            IncidentType = "flood"
	IncidentEpidemicOutbreak IncidentType = "epidemic_outbreak"
	IncidentUnknown          IncidentType = "unknown"
)

// IncidentTypes returns every recognized incident type in canonical order.
func IncidentTypes() []IncidentType {
	return []IncidentType{
		IncidentFire,
		IncidentRoadAccident,
		IncidentBuildingCollapse,
		IncidentChemicalSpill,
		IncidentGasLeak,
		IncidentStampede,
		IncidentTerrorAttack,
		IncidentTrainAccident,
		IncidentFlood,
		IncidentEpidemicOutbreak,
		IncidentUnknown,
	}
}

// ParseIncidentType converts a string into an IncidentType. Unrecognized
// values map to IncidentUnknown rather than failing; field reports are noisy.
func ParseIncidentType(s string) IncidentType {
	t := IncidentType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range IncidentTypes() {
		if t == known {
			return t
		}
	}
	return IncidentUnknown
}

// QueryText renders the incident type as search text, e.g.
// "chemical_spill" becomes "chemical spill".
func (t IncidentType) QueryText() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// SeverityLevel grades an incident's urgency.
type SeverityLevel string

const (
	SeverityCritical SeverityLevel = "critical"
	SeverityHigh     SeverityLevel = "high"
	SeverityMedium   SeverityLevel = "medium"
	SeverityLow      SeverityLevel = "low"
)

// ValidSeverity reports whether s is a recognized severity level.
func ValidSeverity(s SeverityLevel) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// IncidentReport is an inbound emergency event to orchestrate against.
type IncidentReport struct {
	// ID is assigned by the caller or generated on intake.
	ID string `json:"id,omitempty"`
	// Type classifies the event.
	Type IncidentType `json:"type"`
	// Severity grades the event's urgency.
	Severity SeverityLevel `json:"severity"`
	// Location is a free-text place description.
	Location string `json:"location,omitempty"`
	// Description is the reporter's free-text summary.
	Description string `json:"description,omitempty"`
	// ReportedAt is when the report was received.
	ReportedAt time.Time `json:"reportedAt,omitempty"`
}

// Validate checks the report's required fields.
func (r *IncidentReport) Validate() error {
	if r.Type == "" {
		return fmt.Errorf("incident type: %w", ErrEmptyType)
	}
	if r.Severity != "" && !ValidSeverity(r.Severity) {
		return fmt.Errorf("unknown severity %q", r.Severity)
	}
	return nil
}

// AlertStatus tracks the decision state of a hospital alert.
type AlertStatus string

const (
	// AlertPending awaits an operator decision.
	AlertPending AlertStatus = "pending"
	// AlertAcknowledged was accepted by an operator.
	AlertAcknowledged AlertStatus = "acknowledged"
	// AlertDismissed was rejected by an operator.
	AlertDismissed AlertStatus = "dismissed"
)

// ParseAlertStatus converts a decision string into an AlertStatus.
func ParseAlertStatus(s string) (AlertStatus, error) {
	switch AlertStatus(strings.ToLower(strings.TrimSpace(s))) {
	case AlertAcknowledged:
		return AlertAcknowledged, nil
	case AlertDismissed:
		return AlertDismissed, nil
	case AlertPending:
		return AlertPending, nil
	}
	return "", fmt.Errorf("unknown alert status %q", s)
}

// HospitalAlert is a pending notification produced by incident orchestration.
// Alerts live in the alert store collaborator; the engine core never reads
// them back.
type HospitalAlert struct {
	ID           string        `json:"id"`
	IncidentID   string        `json:"incidentId,omitempty"`
	IncidentType IncidentType  `json:"incidentType"`
	Severity     SeverityLevel `json:"severity"`
	Title        string        `json:"title"`
	Message      string        `json:"message"`
	// Departments lists the department nodes the emergency search surfaced.
	Departments []string    `json:"departments,omitempty"`
	Status      AlertStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	DecidedAt   *time.Time  `json:"decidedAt,omitempty"`
}

// Decided reports whether an operator has resolved the alert.
func (a *HospitalAlert) Decided() bool {
	return a.Status != AlertPending
}

// IncidentResponse is the orchestration output for one incident report:
// the emergency buckets, the recorded alert, and an optional generated
// analysis (empty when the generation collaborator is unavailable).
type IncidentResponse struct {
	Incident *IncidentReport   `json:"incident"`
	Alert    *HospitalAlert    `json:"alert,omitempty"`
	Results  *EmergencyResults `json:"results"`
	Analysis string            `json:"analysis,omitempty"`
}
