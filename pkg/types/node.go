package types

import (
	"errors"
	"fmt"
	"sort"
)

// Validation errors
var (
	ErrEmptyID       = errors.New("id cannot be empty")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrEmptyType     = errors.New("type cannot be empty")
	ErrUnknownType   = errors.New("unknown node type")
	ErrInvalidQuery  = errors.New("invalid query")
	ErrInvalidWeight = errors.New("edge weight must be in (0, 1]")
	ErrInvalidLimit  = errors.New("limit must be positive")
)

// NodeType represents the category of a knowledge node.
type NodeType string

const (
	// NodeTypeProtocol represents emergency response protocols.
	NodeTypeProtocol NodeType = "protocol"
	// NodeTypeSupply represents consumable supplies, including medications.
	NodeTypeSupply NodeType = "supply"
	// NodeTypeEquipment represents reusable equipment.
	NodeTypeEquipment NodeType = "equipment"
	// NodeTypeStaffRole represents staff roles and response teams.
	NodeTypeStaffRole NodeType = "staff-role"
	// NodeTypeDepartment represents hospital departments.
	NodeTypeDepartment NodeType = "department"
	// NodeTypeCondition represents medical conditions and injury patterns.
	NodeTypeCondition NodeType = "condition"
	// NodeTypeVendor represents external suppliers.
	NodeTypeVendor NodeType = "vendor"
	// NodeTypeHospital represents partner hospitals.
	NodeTypeHospital NodeType = "hospital"
)

// AllNodeTypes returns the closed set of node types in canonical order.
func AllNodeTypes() []NodeType {
	return []NodeType{
		NodeTypeProtocol,
		NodeTypeSupply,
		NodeTypeEquipment,
		NodeTypeStaffRole,
		NodeTypeDepartment,
		NodeTypeCondition,
		NodeTypeVendor,
		NodeTypeHospital,
	}
}

// EmergencyBucketTypes returns the node-type presets queried by emergency mode,
// one bucket per type, in response order.
func EmergencyBucketTypes() []NodeType {
	return []NodeType{
		NodeTypeProtocol,
		NodeTypeSupply,
		NodeTypeEquipment,
		NodeTypeStaffRole,
		NodeTypeDepartment,
		NodeTypeCondition,
	}
}

// ValidNodeType reports whether t is a member of the closed node-type set.
func ValidNodeType(t NodeType) bool {
	for _, known := range AllNodeTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseNodeType converts a string into a NodeType, rejecting unknown values.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !ValidNodeType(t) {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Node represents a knowledge entity in the graph.
//
// Nodes are loaded once at startup from a static knowledge base and are
// immutable afterward; every query operates over the same read-only view.
type Node struct {
	// ID is the unique identifier, stable for the process lifetime.
	ID string `json:"id" yaml:"id" mapstructure:"id"`
	// Name is the display and lookup string.
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	// Type is the node's category from the closed NodeType set.
	Type NodeType `json:"type" yaml:"type" mapstructure:"type"`
	// Aliases are alternative lookup strings registered with the exact-match index.
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty" mapstructure:"aliases"`
	// Properties holds domain attributes (dosage, capacity, severity, ...).
	Properties map[string]interface{} `json:"properties,omitempty" yaml:"properties,omitempty" mapstructure:"properties"`
	// ExactMatchRequired marks nodes that must only surface via exact lexical
	// match, never fuzzy approximation. Safety property for medications/dosing.
	ExactMatchRequired bool `json:"exactMatchRequired" yaml:"exact_match_required" mapstructure:"exact_match_required"`
}

// Validate checks if the Node has all required fields set.
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	if n.Name == "" {
		return ErrEmptyName
	}
	if n.Type == "" {
		return ErrEmptyType
	}
	if !ValidNodeType(n.Type) {
		return fmt.Errorf("%w: %q", ErrUnknownType, n.Type)
	}
	return nil
}

// Description returns the node's free-text description property, if any.
func (n *Node) Description() string {
	if n.Properties == nil {
		return ""
	}
	if s, ok := n.Properties["description"].(string); ok {
		return s
	}
	return ""
}

// PropertyKeys returns the node's property keys in sorted order, for
// deterministic rendering.
func (n *Node) PropertyKeys() []string {
	if len(n.Properties) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.Properties))
	for k := range n.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
