package search

import (
	"sort"

	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

// ExactIndex maps normalized names and aliases to node ids.
//
// Lookup applies the same normalization as indexing (lowercase, punctuation
// stripped, whitespace collapsed), so "epinephrine 1:10000" and
// "Epinephrine  1:10,000" resolve to the same entry while "epinephrine
// 1:1000" resolves to a different one. There is no fuzzy matching here.
type ExactIndex struct {
	store *store.Store
	terms map[string]string
	dupes map[string]bool
}

// NewExactIndex builds the index from every node in the store, in insertion
// order. When two nodes normalize to the same term the first registration
// wins and the term is recorded as ambiguous.
func NewExactIndex(st *store.Store) *ExactIndex {
	idx := &ExactIndex{
		store: st,
		terms: make(map[string]string),
		dupes: make(map[string]bool),
	}
	for _, node := range st.AllNodes() {
		idx.register(node.Name, node.ID)
		for _, alias := range node.Aliases {
			idx.register(alias, node.ID)
		}
	}
	return idx
}

func (idx *ExactIndex) register(term, nodeID string) {
	normalized := store.NormalizeTerm(term)
	if normalized == "" {
		return
	}
	if existing, ok := idx.terms[normalized]; ok {
		if existing != nodeID {
			idx.dupes[normalized] = true
		}
		return
	}
	idx.terms[normalized] = nodeID
}

// Lookup returns the node registered for the given term, if any.
func (idx *ExactIndex) Lookup(term string) (*types.Node, bool) {
	normalized := store.NormalizeTerm(term)
	if normalized == "" {
		return nil, false
	}
	nodeID, ok := idx.terms[normalized]
	if !ok {
		return nil, false
	}
	node, err := idx.store.GetNode(nodeID)
	if err != nil {
		return nil, false
	}
	return node, true
}

// Len returns the number of distinct terms in the index.
func (idx *ExactIndex) Len() int {
	return len(idx.terms)
}

// Ambiguities returns the normalized terms that were claimed by more than
// one node, sorted. A non-empty result is a data quality problem in the
// knowledge base: exact lookups on these terms silently favor the node
// registered first.
func (idx *ExactIndex) Ambiguities() []string {
	if len(idx.dupes) == 0 {
		return nil
	}
	terms := make([]string, 0, len(idx.dupes))
	for term := range idx.dupes {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
