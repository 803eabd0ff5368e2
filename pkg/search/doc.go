// Package search implements hybrid search over the triago knowledge graph.
//
// This package combines three retrieval paths into one ranked result set:
//   - Exact matching: normalized string equality over names and aliases,
//     the safety-critical path for medications and supply items
//   - Relevance scoring: deterministic fuzzy scoring of query text against
//     node names, aliases, and descriptions
//   - Graph traversal: bounded breadth-first expansion from matched seeds,
//     attenuating scores with edge weight and hop distance
//
// # Usage
//
//	searcher := search.NewSearcher(st, nil, logger)
//
//	results, err := searcher.Search(ctx, &types.HybridSearchQuery{
//	    Text:  "chemical spill",
//	    Limit: 10,
//	})
//
// # Merging
//
// When a node is found by more than one path, the highest-scoring entry wins;
// ties prefer exact over graph over semantic. The final ordering is score
// descending with ascending node id as the tie-break, so identical inputs
// against the same store produce byte-identical output.
//
// # Safety
//
// Nodes flagged ExactMatchRequired never enter the scoring or traversal
// result sets. They surface only through the exact-match index, either by
// query text in exact mode or through explicit exactMatchTerms.
package search
