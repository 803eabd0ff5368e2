package prompts

import (
	"fmt"
	"strings"

	"github.com/soundprediction/triago/pkg/nlp"
	"github.com/soundprediction/triago/pkg/types"
)

const analysisSystemPrompt = `You are a Hospital Resource Strategist AI.
Your role is to analyze an incoming emergency incident and recommend optimal
resource allocation, using the hospital knowledge-graph context provided.

Provide strategic recommendations that prioritize:
1. Patient safety and care quality
2. Resource efficiency
3. System-wide coordination
4. Surge capacity management

Respond in JSON format only:
{
    "summary": "one-paragraph assessment of the situation",
    "severity_assessment": "critical|high|medium|low",
    "recommended_actions": ["ordered list of concrete actions"],
    "required_resources": ["supplies, equipment, or staff to mobilize"],
    "escalation": "when and where to escalate, or empty if not needed"
}`

// IncidentAnalysis builds the messages asking the model to annotate an
// incident report against the emergency search findings.
func IncidentAnalysis(report *types.IncidentReport, contextString string) []types.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "INCIDENT:\n- Type: %s\n", report.Type)
	if report.Severity != "" {
		fmt.Fprintf(&b, "- Reported severity: %s\n", report.Severity)
	}
	if report.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", report.Location)
	}
	if report.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", report.Description)
	}

	fmt.Fprintf(&b, "\nKNOWLEDGE-GRAPH CONTEXT:\n%s\n", contextString)
	b.WriteString("\nAnalyze this emergency situation.")

	return []types.Message{
		nlp.NewSystemMessage(analysisSystemPrompt),
		nlp.NewUserMessage(b.String()),
	}
}
