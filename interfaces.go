package triago

import (
	"context"

	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

// This file defines focused interfaces so consumers can depend on the
// smallest surface that meets their needs. The main Triago interface is
// composed from these.

// Retriever provides the search entry points over the knowledge graph.
type Retriever interface {
	// Search performs hybrid search across the knowledge graph.
	Search(ctx context.Context, query *types.HybridSearchQuery) (*types.SearchResults, error)

	// ExactSearch resolves the query text through the exact-match index only.
	ExactSearch(ctx context.Context, text string) (*types.SearchResults, error)

	// EmergencySearch runs the incident-response preset.
	EmergencySearch(ctx context.Context, text string) (*types.EmergencyResults, error)

	// Query runs the entry point selected by mode.
	Query(ctx context.Context, mode types.Mode, query *types.HybridSearchQuery) (*QueryResult, error)
}

// ContextProvider assembles retrieval context and grounded answers.
type ContextProvider interface {
	// AssembleContext retrieves a generation-ready context block.
	AssembleContext(ctx context.Context, question string) (*types.RAGContext, error)

	// Answer generates a grounded answer from assembled context.
	Answer(ctx context.Context, question string) (*types.RAGAnswer, error)
}

// IncidentManager orchestrates incident reports and their alerts.
type IncidentManager interface {
	// HandleIncident runs the incident orchestration flow.
	HandleIncident(ctx context.Context, report *types.IncidentReport) (*types.IncidentResponse, error)

	// PendingAlerts returns undecided hospital alerts, oldest first.
	PendingAlerts(ctx context.Context) ([]*types.HospitalAlert, error)

	// DecideAlert records an operator decision on an alert.
	DecideAlert(ctx context.Context, alertID string, status types.AlertStatus) (*types.HospitalAlert, error)
}

// GraphReader provides read-only access to the underlying store.
type GraphReader interface {
	// GetNode retrieves a node by id.
	GetNode(ctx context.Context, nodeID string) (*types.Node, error)

	// Neighbors returns a node's outgoing (edge, node) pairs.
	Neighbors(ctx context.Context, nodeID string) ([]store.Neighbor, error)

	// AllNodes returns nodes in insertion order, optionally filtered by type.
	AllNodes(ctx context.Context, filter ...types.NodeType) []*types.Node

	// Stats returns store-wide totals.
	Stats(ctx context.Context) *types.StoreStats
}

// Ensure Triago composes all focused interfaces.
var _ interface {
	Retriever
	ContextProvider
	IncidentManager
	GraphReader
} = (Triago)(nil)
