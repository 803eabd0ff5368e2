package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

// Constants for search behavior.
const (
	// TokenOverlapWeight is the share of the relevance score contributed by
	// the fraction of query tokens found in the node's text.
	TokenOverlapWeight = 0.6

	// ContainmentWeight is the bonus share for the normalized query being a
	// substring of the node's name or an alias, or vice versa.
	ContainmentWeight = 0.25

	// TypeBonusWeight is the bonus share for query vocabulary that names the
	// node's type.
	TypeBonusWeight = 0.15

	// DefaultDecayFactor attenuates graph traversal scores once per hop.
	DefaultDecayFactor = 0.8

	// DefaultSeedLimit caps how many semantic matches seed the traversal.
	// Exact matches always seed regardless of this limit.
	DefaultSeedLimit = 10

	// EmergencyBucketLimit caps results per node-type bucket in emergency mode.
	EmergencyBucketLimit = 5
)

// SearchConfig holds engine-level tuning. Per-query knobs such as hop budget,
// relevance floor, and limit live on types.HybridSearchQuery.
type SearchConfig struct {
	// DecayFactor attenuates graph scores once per hop. Zero means
	// DefaultDecayFactor.
	DecayFactor float64 `json:"decay_factor" yaml:"decay_factor" mapstructure:"decay_factor"`

	// SeedLimit caps the semantic matches used to seed traversal. Zero means
	// DefaultSeedLimit.
	SeedLimit int `json:"seed_limit" yaml:"seed_limit" mapstructure:"seed_limit"`
}

// NewDefaultSearchConfig returns a SearchConfig with default values.
func NewDefaultSearchConfig() *SearchConfig {
	return &SearchConfig{
		DecayFactor: DefaultDecayFactor,
		SeedLimit:   DefaultSeedLimit,
	}
}

// Searcher runs hybrid searches against an immutable store. It is safe for
// concurrent use: all state is built once at construction.
type Searcher struct {
	store     *store.Store
	index     *ExactIndex
	scorer    *Scorer
	traverser *Traverser
	config    *SearchConfig
	logger    *slog.Logger
}

// NewSearcher builds a Searcher over the given store, indexing every node's
// name and aliases for exact lookup. A nil config uses defaults; a nil
// logger uses slog.Default. Ambiguous index terms are logged as warnings
// since they indicate duplicate names in the knowledge base.
func NewSearcher(st *store.Store, config *SearchConfig, logger *slog.Logger) *Searcher {
	cfg := SearchConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.DecayFactor == 0 {
		cfg.DecayFactor = DefaultDecayFactor
	}
	if cfg.SeedLimit == 0 {
		cfg.SeedLimit = DefaultSeedLimit
	}
	if logger == nil {
		logger = slog.Default()
	}

	index := NewExactIndex(st)
	if ambiguous := index.Ambiguities(); len(ambiguous) > 0 {
		logger.Warn("exact index has ambiguous terms",
			"count", len(ambiguous),
			"terms", ambiguous)
	}

	return &Searcher{
		store:     st,
		index:     index,
		scorer:    NewScorer(),
		traverser: NewTraverser(st),
		config:    &cfg,
		logger:    logger,
	}
}

// Index exposes the exact-match index, primarily for diagnostics.
func (s *Searcher) Index() *ExactIndex {
	return s.index
}

// Search runs the full hybrid pipeline: exact terms, relevance scoring,
// graph expansion from the combined seeds, then a merge that keeps the
// best entry per node. Results are ordered by score descending with node
// id as the tie-break, so identical inputs yield identical output.
func (s *Searcher) Search(ctx context.Context, query *types.HybridSearchQuery) (*types.SearchResults, error) {
	q := query.WithDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	stats := types.SearchStats{}
	exact := s.exactPass(q, &stats)
	semantic := s.semanticPass(q, &stats)

	seeds := s.collectSeeds(exact, semantic)
	stats.SeedCount = len(seeds)
	graph := s.graphPass(q, seeds, &stats)

	results := mergeResults(exact, semantic, graph)
	stats.TotalMatches = len(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}
	countMatchTypes(results, &stats)

	s.logger.Debug("hybrid search complete",
		"query", q.Text,
		"results", len(results),
		"total_matches", stats.TotalMatches,
		"seeds", stats.SeedCount)

	return &types.SearchResults{
		Query:       q.Text,
		Results:     results,
		EntityGraph: buildEntityGraph(s.store, results),
		Stats:       stats,
	}, nil
}

// ExactSearch resolves the query text through the exact index only. It
// returns at most one result, scored 1.0. No fuzzy fallback: a miss is an
// empty result set, not an error.
func (s *Searcher) ExactSearch(ctx context.Context, text string) (*types.SearchResults, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: query text is empty", types.ErrInvalidQuery)
	}

	stats := types.SearchStats{}
	results := make([]*types.SearchResult, 0, 1)
	if node, ok := s.index.Lookup(text); ok {
		results = append(results, exactResult(node, text))
	}
	stats.TotalMatches = len(results)
	countMatchTypes(results, &stats)

	return &types.SearchResults{
		Query:       text,
		Results:     results,
		EntityGraph: buildEntityGraph(s.store, results),
		Stats:       stats,
	}, nil
}

// EmergencySearch is the incident-response preset: one hybrid run with an
// unrestricted type scope, partitioned into one bucket per emergency node
// type in types.EmergencyBucketTypes order. Seeding stays unrestricted
// because the types an incident query names textually (usually protocols
// and conditions) are not the types responders need listed (supplies,
// equipment, staff); those only arrive through graph expansion.
func (s *Searcher) EmergencySearch(ctx context.Context, text string) (*types.EmergencyResults, error) {
	bucketTypes := types.EmergencyBucketTypes()
	full, err := s.Search(ctx, &types.HybridSearchQuery{
		Text:  text,
		Limit: EmergencyBucketLimit * len(bucketTypes),
	})
	if err != nil {
		return nil, err
	}

	buckets := make([]types.EmergencyBucket, 0, len(bucketTypes))
	for _, bucketType := range bucketTypes {
		bucket := types.EmergencyBucket{
			Type:    bucketType,
			Results: make([]*types.SearchResult, 0, EmergencyBucketLimit),
		}
		for _, result := range full.Results {
			if result.Node.Type != bucketType {
				continue
			}
			if len(bucket.Results) >= EmergencyBucketLimit {
				break
			}
			bucket.Results = append(bucket.Results, result)
		}
		buckets = append(buckets, bucket)
	}

	return &types.EmergencyResults{
		Query:   text,
		Buckets: buckets,
		Stats:   full.Stats,
	}, nil
}

// exactPass resolves each exactMatchTerms entry through the index. Hits are
// pinned to score 1.0. Duplicate terms resolving to the same node produce
// one result.
func (s *Searcher) exactPass(q *types.HybridSearchQuery, stats *types.SearchStats) []*types.SearchResult {
	var results []*types.SearchResult
	seen := make(map[string]bool, len(q.ExactMatchTerms))
	for _, term := range q.ExactMatchTerms {
		node, ok := s.index.Lookup(term)
		if !ok {
			continue
		}
		if seen[node.ID] {
			continue
		}
		seen[node.ID] = true
		results = append(results, exactResult(node, term))
	}
	return results
}

// semanticPass scores every node, restricted to q.NodeTypes when set,
// keeping those at or above the relevance floor. ExactMatchRequired nodes
// are skipped entirely.
func (s *Searcher) semanticPass(q *types.HybridSearchQuery, stats *types.SearchStats) []*types.SearchResult {
	var results []*types.SearchResult
	for _, node := range s.store.AllNodes(q.NodeTypes...) {
		stats.NodesScanned++
		if node.ExactMatchRequired {
			continue
		}
		score, explanation := s.scorer.Explain(q.Text, node)
		if score < q.MinRelevance {
			continue
		}
		results = append(results, &types.SearchResult{
			Node:        node,
			Score:       score,
			MatchType:   types.MatchTypeSemantic,
			Explanation: explanation,
		})
	}
	return results
}

// collectSeeds unions the exact hits with the top-scoring semantic hits.
// Exact hits always seed; semantic hits are ranked by score then node id
// and capped at the configured seed limit.
func (s *Searcher) collectSeeds(exact, semantic []*types.SearchResult) []Seed {
	seeds := make([]Seed, 0, len(exact)+s.config.SeedLimit)
	seen := make(map[string]bool)
	for _, result := range exact {
		if seen[result.Node.ID] {
			continue
		}
		seen[result.Node.ID] = true
		seeds = append(seeds, Seed{ID: result.Node.ID, Score: result.Score})
	}

	ranked := make([]*types.SearchResult, len(semantic))
	copy(ranked, semantic)
	sortResults(ranked)
	taken := 0
	for _, result := range ranked {
		if taken >= s.config.SeedLimit {
			break
		}
		if seen[result.Node.ID] {
			continue
		}
		seen[result.Node.ID] = true
		seeds = append(seeds, Seed{ID: result.Node.ID, Score: result.Score})
		taken++
	}
	return seeds
}

// graphPass expands the seeds and converts traversal hits into results.
// When the query restricts node types, traversal still passes through
// excluded nodes but their hits are dropped here.
func (s *Searcher) graphPass(q *types.HybridSearchQuery, seeds []Seed, stats *types.SearchStats) []*types.SearchResult {
	if *q.MaxHops <= 0 || len(seeds) == 0 {
		return nil
	}
	hits, traversalStats := s.traverser.Expand(seeds, &TraversalOptions{
		MaxHops:     *q.MaxHops,
		DecayFactor: s.config.DecayFactor,
	})
	stats.NodesScanned += traversalStats.NodesDiscovered
	stats.EdgesScanned += traversalStats.EdgesScanned

	var results []*types.SearchResult
	for _, hit := range hits {
		if len(q.NodeTypes) > 0 && !typeAllowed(hit.Node.Type, q.NodeTypes) {
			continue
		}
		results = append(results, &types.SearchResult{
			Node:        hit.Node,
			Score:       hit.Score,
			MatchType:   types.MatchTypeGraph,
			Explanation: s.graphExplanation(hit),
			GraphPath:   hit.Path,
		})
	}
	return results
}

func (s *Searcher) graphExplanation(hit *TraversalHit) string {
	seedName := hit.SeedID
	if node, err := s.store.GetNode(hit.SeedID); err == nil {
		seedName = node.Name
	}
	edgeTypes := make([]string, len(hit.EdgeTypes))
	for i, edgeType := range hit.EdgeTypes {
		edgeTypes[i] = string(edgeType)
	}
	hops := "hops"
	if hit.Hops == 1 {
		hops = "hop"
	}
	return fmt.Sprintf("reached from %q via %s (%d %s)", seedName, strings.Join(edgeTypes, ", "), hit.Hops, hops)
}

func exactResult(node *types.Node, term string) *types.SearchResult {
	return &types.SearchResult{
		Node:        node,
		Score:       1.0,
		MatchType:   types.MatchTypeExact,
		Explanation: fmt.Sprintf("exact match on %q", term),
	}
}

// mergeResults reduces candidate sets into one entry per node id. The
// higher score wins; on equal scores the higher-precedence match type wins,
// exact over graph over semantic. The merged set comes back sorted.
func mergeResults(sets ...[]*types.SearchResult) []*types.SearchResult {
	merged := make(map[string]*types.SearchResult)
	for _, set := range sets {
		for _, result := range set {
			current, ok := merged[result.Node.ID]
			if !ok || takesPrecedence(result, current) {
				merged[result.Node.ID] = result
			}
		}
	}
	results := make([]*types.SearchResult, 0, len(merged))
	for _, result := range merged {
		results = append(results, result)
	}
	sortResults(results)
	return results
}

func takesPrecedence(a, b *types.SearchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.MatchType.Precedence() > b.MatchType.Precedence()
}

// sortResults orders results by score descending, then node id ascending.
// Node ids are unique within a result set, so the order is total.
func sortResults(results []*types.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Node.ID < results[j].Node.ID
	})
}

func countMatchTypes(results []*types.SearchResult, stats *types.SearchStats) {
	for _, result := range results {
		switch result.MatchType {
		case types.MatchTypeExact:
			stats.ExactMatches++
		case types.MatchTypeSemantic:
			stats.SemanticMatches++
		case types.MatchTypeGraph:
			stats.GraphMatches++
		}
	}
}

func typeAllowed(nodeType types.NodeType, allowed []types.NodeType) bool {
	for _, t := range allowed {
		if t == nodeType {
			return true
		}
	}
	return false
}
