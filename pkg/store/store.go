package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/soundprediction/triago/pkg/types"
)

var (
	// ErrNodeNotFound is returned when a node id is not in the store.
	ErrNodeNotFound = errors.New("node not found")
	// ErrDuplicateNode is returned at build time for repeated node ids.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrUnknownEndpoint is returned at build time for edges referencing
	// nodes that are not in the store.
	ErrUnknownEndpoint = errors.New("edge endpoint not in store")
	// ErrEmptyStore is returned when a store is built with no nodes.
	ErrEmptyStore = errors.New("store has no nodes")
)

// Neighbor pairs an outgoing edge with the node it points to.
type Neighbor struct {
	Edge *types.Edge
	Node *types.Node
}

// Store is an immutable, typed, in-memory knowledge graph.
//
// Returned nodes and edges are shared; callers must treat them as read-only.
type Store struct {
	nodes    map[string]*types.Node
	order    []string
	nameToID map[string]string
	out      map[string][]Neighbor
	edges    []*types.Edge
	byType   map[types.NodeType]int
}

// NewStore builds a Store from static node and edge data, validating every
// item. Node insertion order is preserved and observable through AllNodes;
// tie-breaking elsewhere in the engine relies on it. The input slices are
// not retained.
func NewStore(nodes []*types.Node, edges []*types.Edge) (*Store, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyStore
	}

	s := &Store{
		nodes:    make(map[string]*types.Node, len(nodes)),
		order:    make([]string, 0, len(nodes)),
		nameToID: make(map[string]string, len(nodes)),
		out:      make(map[string][]Neighbor),
		edges:    make([]*types.Edge, 0, len(edges)),
		byType:   make(map[types.NodeType]int),
	}

	for i, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("node %d is nil", i)
		}
		if err := n.Validate(); err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, n.ID, err)
		}
		if _, exists := s.nodes[n.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		s.nodes[n.ID] = n
		s.order = append(s.order, n.ID)
		s.byType[n.Type]++

		// First node wins a normalized-name collision; later claims are a
		// data-quality concern surfaced by the exact-match index.
		norm := NormalizeTerm(n.Name)
		if norm != "" {
			if _, taken := s.nameToID[norm]; !taken {
				s.nameToID[norm] = n.ID
			}
		}
	}

	for i, e := range edges {
		if e == nil {
			return nil, fmt.Errorf("edge %d is nil", i)
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if _, ok := s.nodes[e.SourceID]; !ok {
			return nil, fmt.Errorf("%w: source %s", ErrUnknownEndpoint, e.SourceID)
		}
		dst, ok := s.nodes[e.TargetID]
		if !ok {
			return nil, fmt.Errorf("%w: target %s", ErrUnknownEndpoint, e.TargetID)
		}
		s.edges = append(s.edges, e)
		s.out[e.SourceID] = append(s.out[e.SourceID], Neighbor{Edge: e, Node: dst})
	}

	return s, nil
}

// GetNode returns the node with the given id.
func (s *Store) GetNode(id string) (*types.Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n, nil
}

// Has reports whether a node id is in the store.
func (s *Store) Has(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// ResolveName maps a name (after normalization) to a node id in O(1).
// When several nodes share a normalized name, the first by insertion
// order owns it.
func (s *Store) ResolveName(name string) (string, bool) {
	id, ok := s.nameToID[NormalizeTerm(name)]
	return id, ok
}

// Neighbors returns the outgoing (edge, node) pairs of a node in edge
// insertion order.
func (s *Store) Neighbors(id string) ([]Neighbor, error) {
	if _, ok := s.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return s.out[id], nil
}

// AllNodes returns nodes in insertion order, optionally filtered to the
// given types.
func (s *Store) AllNodes(filter ...types.NodeType) []*types.Node {
	result := make([]*types.Node, 0, len(s.order))
	for _, id := range s.order {
		n := s.nodes[id]
		if len(filter) > 0 && !containsType(filter, n.Type) {
			continue
		}
		result = append(result, n)
	}
	return result
}

// Edges returns every edge in insertion order.
func (s *Store) Edges() []*types.Edge {
	return s.edges
}

// NodeCount returns the number of nodes in the store.
func (s *Store) NodeCount() int {
	return len(s.order)
}

// EdgeCount returns the number of edges in the store.
func (s *Store) EdgeCount() int {
	return len(s.edges)
}

// Stats returns store-wide totals with per-type counts in sorted type order.
func (s *Store) Stats() *types.StoreStats {
	counts := make([]types.TypeCount, 0, len(s.byType))
	for t, c := range s.byType {
		counts = append(counts, types.TypeCount{Type: t, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Type < counts[j].Type })
	return &types.StoreStats{
		NodeCount:   len(s.order),
		EdgeCount:   len(s.edges),
		NodesByType: counts,
	}
}

func containsType(haystack []types.NodeType, needle types.NodeType) bool {
	for _, t := range haystack {
		if t == needle {
			return true
		}
	}
	return false
}
