package types

import (
	"fmt"
	"strings"
)

// Defaults applied by HybridSearchQuery.WithDefaults.
const (
	// DefaultMaxHops is the traversal depth used when the caller does not set one.
	DefaultMaxHops = 2
	// DefaultMinRelevance is the semantic score floor used when the caller does not set one.
	DefaultMinRelevance = 0.1
	// DefaultLimit caps the number of results returned.
	DefaultLimit = 20
)

// MatchType tags a result with the retrieval path that produced it.
type MatchType string

const (
	// MatchTypeExact marks results found through the exact-match index.
	MatchTypeExact MatchType = "exact"
	// MatchTypeSemantic marks results found through fuzzy relevance scoring.
	MatchTypeSemantic MatchType = "semantic"
	// MatchTypeGraph marks results discovered through graph traversal.
	MatchTypeGraph MatchType = "graph"
)

// Precedence orders match types for merge tie-breaking: exactness is the
// strongest evidence, graph proximity beats bare textual similarity.
func (m MatchType) Precedence() int {
	switch m {
	case MatchTypeExact:
		return 3
	case MatchTypeGraph:
		return 2
	case MatchTypeSemantic:
		return 1
	default:
		return 0
	}
}

// HybridSearchQuery is the input contract for hybrid search.
type HybridSearchQuery struct {
	// Text is the free-text query. Required; must not be empty or whitespace.
	Text string `json:"text"`
	// ExactMatchTerms forces exact-index lookup for each listed term.
	ExactMatchTerms []string `json:"exactMatchTerms,omitempty"`
	// NodeTypes restricts semantic results to the listed categories.
	NodeTypes []NodeType `json:"nodeTypes,omitempty"`
	// MaxHops bounds graph traversal depth. Nil means DefaultMaxHops; zero
	// disables traversal; negative values are rejected.
	MaxHops *int `json:"maxHops,omitempty"`
	// MinRelevance drops semantic candidates scoring below it. Zero means
	// DefaultMinRelevance.
	MinRelevance float64 `json:"minRelevance,omitempty"`
	// Limit caps the number of results returned. Zero means DefaultLimit.
	Limit int `json:"limit,omitempty"`
}

// Validate checks the query against the engine's input contract. All
// violations map onto ErrInvalidQuery so callers can classify them uniformly.
func (q *HybridSearchQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: query text is empty", ErrInvalidQuery)
	}
	if q.MaxHops != nil && *q.MaxHops < 0 {
		return fmt.Errorf("%w: maxHops must be >= 0, got %d", ErrInvalidQuery, *q.MaxHops)
	}
	if q.MinRelevance < 0 || q.MinRelevance > 1 {
		return fmt.Errorf("%w: minRelevance must be in [0, 1], got %g", ErrInvalidQuery, q.MinRelevance)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, ErrInvalidLimit)
	}
	for _, t := range q.NodeTypes {
		if !ValidNodeType(t) {
			return fmt.Errorf("%w: %v: %q", ErrInvalidQuery, ErrUnknownType, t)
		}
	}
	return nil
}

// WithDefaults returns a copy of the query with default values applied.
// A nil receiver yields a query that still requires Text to be set.
func (q *HybridSearchQuery) WithDefaults() *HybridSearchQuery {
	var result HybridSearchQuery
	if q != nil {
		result = *q
	}
	if result.MaxHops == nil {
		hops := DefaultMaxHops
		result.MaxHops = &hops
	}
	if result.MinRelevance == 0 {
		result.MinRelevance = DefaultMinRelevance
	}
	if result.Limit == 0 {
		result.Limit = DefaultLimit
	}
	return &result
}

// SearchResult is one ranked hit, transient per query.
type SearchResult struct {
	// Node is the matched knowledge entity.
	Node *Node `json:"node"`
	// Score is the result's relevance, higher is more relevant. Exact matches
	// are pinned to 1.0.
	Score float64 `json:"score"`
	// MatchType records which retrieval path produced the result.
	MatchType MatchType `json:"matchType"`
	// Explanation is a human-readable justification for the match.
	Explanation string `json:"explanation"`
	// GraphPath is the hop-minimal sequence of node ids from the originating
	// seed to this node. Only set for graph results.
	GraphPath []string `json:"graphPath,omitempty"`
}

// Hops returns the result's distance from its seed, or zero for non-graph results.
func (r *SearchResult) Hops() int {
	if len(r.GraphPath) == 0 {
		return 0
	}
	return len(r.GraphPath) - 1
}

// SearchStats summarizes one search run for observability. All counters are
// deterministic for identical store state and input.
type SearchStats struct {
	// ExactMatches counts returned results with MatchTypeExact.
	ExactMatches int `json:"exactMatches"`
	// SemanticMatches counts returned results with MatchTypeSemantic.
	SemanticMatches int `json:"semanticMatches"`
	// GraphMatches counts returned results with MatchTypeGraph.
	GraphMatches int `json:"graphMatches"`
	// SeedCount is the number of seed nodes feeding graph traversal.
	SeedCount int `json:"seedCount"`
	// NodesScanned counts nodes examined across scoring and traversal.
	NodesScanned int `json:"nodesScanned"`
	// EdgesScanned counts edges relaxed during traversal.
	EdgesScanned int `json:"edgesScanned"`
	// TotalMatches is the merged result count before truncation to the limit.
	TotalMatches int `json:"totalMatches"`
}

// Add accumulates another run's counters, used by emergency mode's buckets.
func (s *SearchStats) Add(other SearchStats) {
	s.ExactMatches += other.ExactMatches
	s.SemanticMatches += other.SemanticMatches
	s.GraphMatches += other.GraphMatches
	s.SeedCount += other.SeedCount
	s.NodesScanned += other.NodesScanned
	s.EdgesScanned += other.EdgesScanned
	s.TotalMatches += other.TotalMatches
}

// EntityGraphNode is a node reference inside an EntityGraph.
type EntityGraphNode struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type NodeType `json:"type"`
}

// EntityGraphEdge is an edge inside an EntityGraph.
type EntityGraphEdge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
	Weight float64  `json:"weight"`
}

// EntityGraph is the induced subgraph over a result set: every result node,
// plus every store edge whose endpoints both appear in the result set. Purely
// a response artifact, never persisted.
type EntityGraph struct {
	NodeCount int               `json:"nodeCount"`
	EdgeCount int               `json:"edgeCount"`
	Nodes     []EntityGraphNode `json:"nodes"`
	Edges     []EntityGraphEdge `json:"edges"`
}

// SearchResults is the full output of one hybrid search.
type SearchResults struct {
	// Query echoes the free-text input.
	Query string `json:"query"`
	// Results are ranked hits, score descending, ties broken by node id.
	Results []*SearchResult `json:"results"`
	// EntityGraph is the induced subgraph over the result node set.
	EntityGraph *EntityGraph `json:"entityGraph"`
	// Stats summarizes the run.
	Stats SearchStats `json:"stats"`
}

// EmergencyBucket holds the results for one node-type preset in emergency mode.
type EmergencyBucket struct {
	Type    NodeType        `json:"type"`
	Results []*SearchResult `json:"results"`
}

// EmergencyResults is the emergency-mode response: one bucket per preset
// node type, in EmergencyBucketTypes order, plus aggregated stats.
type EmergencyResults struct {
	Query   string            `json:"query"`
	Buckets []EmergencyBucket `json:"buckets"`
	Stats   SearchStats       `json:"stats"`
}

// TypeCount pairs a node type with a count, used in store-wide diagnostics.
type TypeCount struct {
	Type  NodeType `json:"type"`
	Count int      `json:"count"`
}

// StoreStats reports store-wide totals, the mode=stats diagnostic payload.
type StoreStats struct {
	NodeCount   int         `json:"nodeCount"`
	EdgeCount   int         `json:"edgeCount"`
	NodesByType []TypeCount `json:"nodesByType"`
}
