package triago

import (
	"context"
	"fmt"
	"strings"

	"github.com/soundprediction/triago/pkg/nlp"
	"github.com/soundprediction/triago/pkg/prompts"
	"github.com/soundprediction/triago/pkg/types"
)

// HandleIncident orchestrates one inbound incident report: the incident
// becomes an emergency-mode query, the matched departments land on a
// pending hospital alert, and, when a language model is configured, the
// findings are annotated with a resource analysis. Analysis failures
// degrade to an empty Analysis field; the alert and the search results
// never depend on the collaborator.
func (c *Client) HandleIncident(ctx context.Context, report *types.IncidentReport) (*types.IncidentResponse, error) {
	if report == nil {
		return nil, fmt.Errorf("%w: nil incident report", ErrInvalidQuery)
	}
	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	queryText := incidentQuery(report)
	results, err := c.EmergencySearch(ctx, queryText)
	if err != nil {
		return nil, err
	}

	response := &types.IncidentResponse{
		Incident: report,
		Results:  results,
		Analysis: c.annotateIncident(ctx, report, queryText),
	}

	hospitalAlert := buildAlert(report, results)
	if err := c.alerts.SaveAlert(ctx, hospitalAlert); err != nil {
		c.logger.Error("failed to persist hospital alert", "incident", report.Type, "error", err)
		return response, fmt.Errorf("save alert: %w", err)
	}
	response.Alert = hospitalAlert

	c.logger.Info("incident handled",
		"incident", report.Type,
		"severity", hospitalAlert.Severity,
		"alert_id", hospitalAlert.ID,
		"matches", results.Stats.TotalMatches)
	return response, nil
}

// PendingAlerts returns undecided hospital alerts, oldest first.
func (c *Client) PendingAlerts(ctx context.Context) ([]*types.HospitalAlert, error) {
	return c.alerts.PendingAlerts(ctx)
}

// DecideAlert records an operator decision on a hospital alert and
// returns the updated alert.
func (c *Client) DecideAlert(ctx context.Context, alertID string, status types.AlertStatus) (*types.HospitalAlert, error) {
	return c.alerts.Decide(ctx, alertID, status)
}

// incidentQuery renders a report as emergency search text. Known incident
// types use their canonical keywords so a given type always retrieves the
// same resources; unknown types fall back to the reporter's description.
func incidentQuery(report *types.IncidentReport) string {
	if report.Type == types.IncidentUnknown && report.Description != "" {
		return report.Description
	}
	return report.Type.QueryText()
}

// buildAlert turns emergency findings into a pending hospital alert. The
// department bucket drives the notification fan-out; an unreported
// severity is treated as high until an operator triages it.
func buildAlert(report *types.IncidentReport, results *types.EmergencyResults) *types.HospitalAlert {
	severity := report.Severity
	if severity == "" {
		severity = types.SeverityHigh
	}

	title := fmt.Sprintf("Emergency: %s", report.Type.QueryText())
	if report.Location != "" {
		title = fmt.Sprintf("%s at %s", title, report.Location)
	}

	var b strings.Builder
	if report.Description != "" {
		b.WriteString(report.Description)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Emergency search matched %d knowledge-base resources.", results.Stats.TotalMatches)

	return &types.HospitalAlert{
		IncidentID:   report.ID,
		IncidentType: report.Type,
		Severity:     severity,
		Title:        title,
		Message:      b.String(),
		Departments:  departmentNames(results),
	}
}

// departmentNames lists the department bucket's node names in result order.
func departmentNames(results *types.EmergencyResults) []string {
	var names []string
	for _, bucket := range results.Buckets {
		if bucket.Type != types.NodeTypeDepartment {
			continue
		}
		for _, result := range bucket.Results {
			names = append(names, result.Node.Name)
		}
	}
	return names
}

// annotateIncident asks the language model for a structured resource
// analysis of the incident. Any failure returns an empty string; the
// orchestration result never depends on generation.
func (c *Client) annotateIncident(ctx context.Context, report *types.IncidentReport, queryText string) string {
	if c.nlp == nil {
		return ""
	}

	assembled, err := c.AssembleContext(ctx, queryText)
	if err != nil {
		c.logger.Warn("incident context assembly failed", "incident", report.Type, "error", err)
		return ""
	}

	messages := prompts.IncidentAnalysis(report, assembled.ContextString)
	resp, err := c.nlp.ChatWithStructuredOutput(ctx, messages, prompts.IncidentAnnotation{})
	if err != nil {
		c.logger.Warn("incident analysis unavailable", "incident", report.Type, "error", err)
		return ""
	}

	var annotation prompts.IncidentAnnotation
	if err := nlp.DecodeStructured(resp.Content, &annotation); err != nil {
		c.logger.Warn("incident analysis not decodable, keeping raw text", "error", err)
		return resp.Content
	}
	return renderAnnotation(&annotation)
}

// renderAnnotation flattens the structured analysis into readable text.
func renderAnnotation(a *prompts.IncidentAnnotation) string {
	var b strings.Builder
	b.WriteString(a.Summary)
	if a.SeverityAssessment != "" {
		fmt.Fprintf(&b, "\n\nAssessed severity: %s", a.SeverityAssessment)
	}
	if len(a.RecommendedActions) > 0 {
		b.WriteString("\n\nRecommended actions:")
		for i, action := range a.RecommendedActions {
			fmt.Fprintf(&b, "\n%d. %s", i+1, action)
		}
	}
	if len(a.RequiredResources) > 0 {
		b.WriteString("\n\nRequired resources: ")
		b.WriteString(strings.Join(a.RequiredResources, ", "))
	}
	if a.Escalation != "" {
		fmt.Fprintf(&b, "\n\nEscalation: %s", a.Escalation)
	}
	return b.String()
}
