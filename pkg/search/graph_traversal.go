package search

import (
	"math"
	"sort"

	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

// Seed is a starting point for graph traversal: a node id paired with the
// score it earned from the exact or relevance pass.
type Seed struct {
	ID    string
	Score float64
}

// TraversalOptions bounds a graph expansion.
type TraversalOptions struct {
	// MaxHops is the maximum number of edges to follow from any seed.
	// Zero disables traversal.
	MaxHops int

	// DecayFactor multiplies a discovered node's score once per hop.
	// Zero means DefaultDecayFactor.
	DecayFactor float64
}

// TraversalHit is a node discovered during traversal, with the path that
// produced its score.
type TraversalHit struct {
	Node   *types.Node
	Score  float64
	SeedID string
	Hops   int

	// Path holds node ids from the originating seed to this node,
	// inclusive. Its length is Hops+1.
	Path []string

	// EdgeTypes holds the edge types along Path, one per hop.
	EdgeTypes []types.EdgeType
}

// TraversalStats reports how much of the graph a traversal touched.
type TraversalStats struct {
	NodesDiscovered int
	EdgesScanned    int
}

// Traverser performs bounded breadth-first expansion over a store.
//
// Each discovered node's score is the seed score multiplied by the edge
// weights along the discovery path, then attenuated by decay^hops. The
// traversal is level-synchronized: all nodes at hop N are committed before
// hop N+1 begins, so every node is found along a hop-minimal path. When two
// same-length paths reach a node, the higher-scoring one wins; on equal
// scores the first writer wins, with frontier nodes processed in id order
// and neighbors in insertion order.
type Traverser struct {
	store *store.Store
}

// NewTraverser returns a Traverser over the given store.
func NewTraverser(st *store.Store) *Traverser {
	return &Traverser{store: st}
}

type frontierEntry struct {
	id        string
	pathScore float64
	seedID    string
	path      []string
	edgeTypes []types.EdgeType
}

// Expand walks outward from seeds up to opts.MaxHops edges and returns the
// newly discovered nodes. Seeds themselves are never returned. Nodes flagged
// ExactMatchRequired are traversed through but never emitted.
func (t *Traverser) Expand(seeds []Seed, opts *TraversalOptions) ([]*TraversalHit, *TraversalStats) {
	stats := &TraversalStats{}
	if opts == nil || opts.MaxHops <= 0 || len(seeds) == 0 {
		return nil, stats
	}
	decay := opts.DecayFactor
	if decay == 0 {
		decay = DefaultDecayFactor
	}

	visited := make(map[string]bool, len(seeds))
	frontier := make([]frontierEntry, 0, len(seeds))
	for _, seed := range seeds {
		if !t.store.Has(seed.ID) {
			continue
		}
		if visited[seed.ID] {
			// Duplicate seed ids keep their first entry.
			continue
		}
		visited[seed.ID] = true
		frontier = append(frontier, frontierEntry{
			id:        seed.ID,
			pathScore: seed.Score,
			seedID:    seed.ID,
			path:      []string{seed.ID},
		})
	}
	sortFrontier(frontier)

	var hits []*TraversalHit
	for hop := 1; hop <= opts.MaxHops && len(frontier) > 0; hop++ {
		next := make(map[string]frontierEntry)
		for _, entry := range frontier {
			neighbors, err := t.store.Neighbors(entry.id)
			if err != nil {
				continue
			}
			for _, neighbor := range neighbors {
				stats.EdgesScanned++
				targetID := neighbor.Node.ID
				if visited[targetID] {
					continue
				}
				candidate := frontierEntry{
					id:        targetID,
					pathScore: entry.pathScore * neighbor.Edge.Weight,
					seedID:    entry.seedID,
					path:      appendPath(entry.path, targetID),
					edgeTypes: appendEdgeTypes(entry.edgeTypes, neighbor.Edge.Type),
				}
				current, ok := next[targetID]
				if !ok || candidate.pathScore > current.pathScore {
					next[targetID] = candidate
				}
			}
		}

		attenuation := math.Pow(decay, float64(hop))
		frontier = frontier[:0]
		for _, id := range sortedIDs(next) {
			entry := next[id]
			visited[id] = true
			frontier = append(frontier, entry)

			node, err := t.store.GetNode(id)
			if err != nil {
				continue
			}
			stats.NodesDiscovered++
			if node.ExactMatchRequired {
				continue
			}
			hits = append(hits, &TraversalHit{
				Node:      node,
				Score:     entry.pathScore * attenuation,
				SeedID:    entry.seedID,
				Hops:      hop,
				Path:      entry.path,
				EdgeTypes: entry.edgeTypes,
			})
		}
	}
	return hits, stats
}

func sortFrontier(frontier []frontierEntry) {
	sort.Slice(frontier, func(i, j int) bool {
		return frontier[i].id < frontier[j].id
	})
}

func sortedIDs(entries map[string]frontierEntry) []string {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// appendPath copies before appending so sibling branches never share a
// backing array.
func appendPath(path []string, id string) []string {
	next := make([]string, 0, len(path)+1)
	next = append(next, path...)
	return append(next, id)
}

func appendEdgeTypes(edgeTypes []types.EdgeType, edgeType types.EdgeType) []types.EdgeType {
	next := make([]types.EdgeType, 0, len(edgeTypes)+1)
	next = append(next, edgeTypes...)
	return append(next, edgeType)
}
