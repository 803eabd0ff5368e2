package prompts

// IncidentAnnotation is the structured response model for IncidentAnalysis.
type IncidentAnnotation struct {
	Summary            string   `json:"summary"`
	SeverityAssessment string   `json:"severity_assessment"`
	RecommendedActions []string `json:"recommended_actions"`
	RequiredResources  []string `json:"required_resources"`
	Escalation         string   `json:"escalation,omitempty"`
}
