package types

import "fmt"

// Mode selects a search entry point. Modes are shortcuts over the same
// pipeline, not different algorithms; the closed set keeps malformed mode
// strings a validation-time concern.
type Mode string

const (
	// ModeHybrid runs the full exact + semantic + traversal pipeline.
	ModeHybrid Mode = "hybrid"
	// ModeExact restricts retrieval to the exact-match index.
	ModeExact Mode = "exact"
	// ModeEmergency runs the pipeline once per emergency node-type preset.
	ModeEmergency Mode = "emergency"
	// ModeRAG assembles a generation-ready context block from the results.
	ModeRAG Mode = "rag"
	// ModeStats is a read-only diagnostic returning store-wide totals.
	ModeStats Mode = "stats"
)

// Modes returns every recognized mode in canonical order.
func Modes() []Mode {
	return []Mode{ModeHybrid, ModeExact, ModeEmergency, ModeRAG, ModeStats}
}

// ParseMode converts a mode string into a Mode. The empty string selects
// ModeHybrid; anything outside the closed set is an invalid query.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeHybrid, nil
	}
	m := Mode(s)
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidQuery, s)
}
