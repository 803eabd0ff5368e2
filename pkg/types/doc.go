// Package types defines the core data types for the triago knowledge engine.
//
// This package contains the fundamental types used throughout triago:
//   - Node: A typed knowledge entity (protocol, supply, equipment, ...)
//   - Edge: A directed, weighted relationship between two nodes
//   - HybridSearchQuery: Input contract for hybrid search
//   - SearchResult / SearchResults: Ranked output of a search
//   - EntityGraph: Induced subgraph over a result set
//   - RAGContext: Assembled context block for downstream text generation
//   - IncidentReport / HospitalAlert: Emergency orchestration records
//
// # Node Types
//
// Nodes belong to a closed set of categories:
//   - NodeTypeProtocol: Emergency response protocols
//   - NodeTypeSupply: Consumable supplies, including safety-critical medications
//   - NodeTypeEquipment: Reusable equipment
//   - NodeTypeStaffRole: Staff roles and response teams
//   - NodeTypeDepartment: Hospital departments
//   - NodeTypeCondition: Medical conditions and injury patterns
//   - NodeTypeVendor: External suppliers
//   - NodeTypeHospital: Partner hospitals
//
// # Validation
//
// Types provide Validate() methods for input validation:
//
//	node := &types.Node{ID: "hazmat-suit", Name: "HAZMAT Suit", Type: types.NodeTypeEquipment}
//	if err := node.Validate(); err != nil {
//	    // Handle validation error
//	}
//
// # JSON Serialization
//
// All types are designed to be JSON-serializable with struct tags matching the
// engine's external query contract.
package types
