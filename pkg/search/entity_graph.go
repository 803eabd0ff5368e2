package search

import (
	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

// buildEntityGraph returns the subgraph induced by a result set: one node
// per result, in result order, plus every store edge whose endpoints both
// appear among the results, in store insertion order.
func buildEntityGraph(st *store.Store, results []*types.SearchResult) *types.EntityGraph {
	graph := &types.EntityGraph{
		Nodes: make([]types.EntityGraphNode, 0, len(results)),
		Edges: make([]types.EntityGraphEdge, 0),
	}
	included := make(map[string]bool, len(results))
	for _, result := range results {
		included[result.Node.ID] = true
		graph.Nodes = append(graph.Nodes, types.EntityGraphNode{
			ID:   result.Node.ID,
			Name: result.Node.Name,
			Type: result.Node.Type,
		})
	}
	for _, edge := range st.Edges() {
		if included[edge.SourceID] && included[edge.TargetID] {
			graph.Edges = append(graph.Edges, types.EntityGraphEdge{
				Source: edge.SourceID,
				Target: edge.TargetID,
				Type:   edge.Type,
				Weight: edge.Weight,
			})
		}
	}
	graph.NodeCount = len(graph.Nodes)
	graph.EdgeCount = len(graph.Edges)
	return graph
}
