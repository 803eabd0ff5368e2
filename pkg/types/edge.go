package types

import "fmt"

// EdgeType represents the kind of relationship an edge carries.
type EdgeType string

const (
	// EdgeTypeRequires links a protocol to the equipment or supplies it needs.
	EdgeTypeRequires EdgeType = "requires"
	// EdgeTypeStaffedBy links a protocol or department to a staff role.
	EdgeTypeStaffedBy EdgeType = "staffedBy"
	// EdgeTypeTreats links a protocol or department to a condition it handles.
	EdgeTypeTreats EdgeType = "treats"
	// EdgeTypeTreatedBy links a condition to the department that handles it.
	EdgeTypeTreatedBy EdgeType = "treatedBy"
	// EdgeTypeLocatedIn links equipment or staff to a department.
	EdgeTypeLocatedIn EdgeType = "locatedIn"
	// EdgeTypeSuppliedBy links a supply or equipment item to a vendor.
	EdgeTypeSuppliedBy EdgeType = "suppliedBy"
	// EdgeTypeEscalatesTo links a protocol to a fallback hospital or protocol.
	EdgeTypeEscalatesTo EdgeType = "escalatesTo"
	// EdgeTypeRelatedTo links loosely associated entities.
	EdgeTypeRelatedTo EdgeType = "relatedTo"
)

// Edge is a directed, typed, weighted relationship between two nodes.
//
// Edges hold node ids only; they do not own nodes. Both endpoints must exist
// in the store that holds the edge. Weight attenuates traversal scores.
type Edge struct {
	// SourceID is the id of the origin node.
	SourceID string `json:"source" yaml:"source" mapstructure:"source"`
	// TargetID is the id of the destination node.
	TargetID string `json:"target" yaml:"target" mapstructure:"target"`
	// Type is the relationship kind.
	Type EdgeType `json:"type" yaml:"type" mapstructure:"type"`
	// Weight is the relationship strength in (0, 1].
	Weight float64 `json:"weight" yaml:"weight" mapstructure:"weight"`
}

// Validate checks if the Edge has all required fields set and a legal weight.
func (e *Edge) Validate() error {
	if e.SourceID == "" {
		return fmt.Errorf("edge source: %w", ErrEmptyID)
	}
	if e.TargetID == "" {
		return fmt.Errorf("edge target: %w", ErrEmptyID)
	}
	if e.Type == "" {
		return fmt.Errorf("edge %s->%s: %w", e.SourceID, e.TargetID, ErrEmptyType)
	}
	if e.Weight <= 0 || e.Weight > 1 {
		return fmt.Errorf("edge %s->%s: %w, got %g", e.SourceID, e.TargetID, ErrInvalidWeight, e.Weight)
	}
	return nil
}

// IsSelfLoop reports whether the edge starts and ends on the same node.
// Self-loops are legal data; the traversal's visited set keeps them finite.
func (e *Edge) IsSelfLoop() bool {
	return e.SourceID == e.TargetID
}
