package nlp

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
)

var thinkTagRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// DecodeStructured unmarshals a model response into target, repairing the
// JSON first when the raw content doesn't parse. Models wrap JSON in think
// tags or markdown fences often enough that decoding the content verbatim
// is the exception rather than the rule.
func DecodeStructured(content string, target any) error {
	cleaned := stripResponseWrapping(content)
	if cleaned == "" {
		return NewEmptyResponseError("structured response was empty")
	}

	if err := json.Unmarshal([]byte(cleaned), target); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return fmt.Errorf("structured response is not repairable JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), target); err != nil {
		return fmt.Errorf("structured response does not match schema: %w", err)
	}
	return nil
}

// stripResponseWrapping removes think tags and markdown code fences around
// a JSON payload.
func stripResponseWrapping(content string) string {
	s := thinkTagRe.ReplaceAllString(content, "")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	return s
}
