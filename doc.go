// Package triago provides a hybrid search and GraphRAG engine for
// hospital emergency operations.
//
// Triago retrieves emergency resources from a static, typed knowledge
// graph by combining exact-match lookup for safety-critical terms (drug
// dilutions, supply SKUs), lexical relevance scoring, and bounded graph
// traversal. Retrieval is deterministic: the same store and query always
// produce byte-identical ranked output.
//
// # Basic Usage
//
// Create a client over the builtin hospital dataset:
//
//	st, err := kb.Builtin()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := triago.NewClient(st, nil, nil, nil, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
// Or wire everything (knowledge base, language model, alert store) from
// file configuration:
//
//	cfg, err := config.Load("triago.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := triago.New(cfg, logger.NewDefaultLogger(slog.LevelInfo))
//
// # Searching
//
// Hybrid search merges three passes over the same store:
//
//	results, err := client.Search(ctx, &types.HybridSearchQuery{
//		Text: "chemical spill",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range results.Results {
//		fmt.Printf("%s  %.2f  %s\n", r.Node.Name, r.Score, r.MatchType)
//	}
//
// Exact terms pin to score 1.0, semantic hits carry a lexical relevance
// score, and graph hits decay with each hop from their seed. Each result
// explains itself: matchType, Explanation, and for graph hits the
// GraphPath from seed to node.
//
// # Modes
//
// Modes are entry-point shortcuts over the same pipeline, dispatched
// through Query:
//
//   - hybrid: the full exact + semantic + traversal pipeline
//   - exact: the exact-match index only; a miss is an empty result
//   - emergency: one result bucket per emergency node type
//   - rag: an assembled, bounded context block for generation
//   - stats: store-wide node and edge totals
//
// # Incident Orchestration
//
// HandleIncident turns an incident report into emergency search results,
// a pending hospital alert, and an optional language-model analysis:
//
//	response, err := client.HandleIncident(ctx, &types.IncidentReport{
//		Type:     types.IncidentChemicalSpill,
//		Severity: types.SeverityCritical,
//		Location: "Loading Dock B",
//	})
//
// The analysis degrades gracefully: without a configured language model
// the response simply carries no Analysis text.
//
// # Safety Guarantees
//
// Nodes flagged ExactMatchRequired (the epinephrine dilutions in the
// builtin dataset) never surface through fuzzy matching; they appear
// only via exact lookup or graph traversal. "Epinephrine 1:10000" and
// "Epinephrine 1:1000" can never substitute for each other.
//
// # Error Handling
//
// The library provides sentinel errors for common scenarios:
//
//   - ErrInvalidQuery: malformed query (empty text, negative hops, bad mode)
//   - ErrNodeNotFound: a requested node id doesn't exist
//   - ErrStoreEmpty: a client was built without nodes
//   - ErrGenerationUnavailable: the language model is missing or failing;
//     the assembled retrieval context returned alongside it remains valid
//
// # Architecture
//
// The library follows a modular architecture:
//
//   - pkg/store: immutable in-memory knowledge graph
//   - pkg/search: exact index, relevance scorer, traversal, orchestrator
//   - pkg/rag: retrieval-context assembly
//   - pkg/kb: knowledge-base loading (YAML file or builtin dataset)
//   - pkg/nlp: language-model collaborator with retry and circuit breaking
//   - pkg/alertstore: hospital-alert persistence (memory or badger)
//   - pkg/server: HTTP adapter
//
// The engine core (store, search, rag) performs no I/O and no retries;
// everything fallible lives in the collaborators around it.
package triago
