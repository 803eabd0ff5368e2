// Package rag assembles retrieval context for the text-generation
// collaborator.
//
// The Assembler runs the hybrid search pipeline with retrieval-tuned
// defaults (a lower relevance floor, a smaller result cap, no type
// restriction) and renders the hits into a bounded prompt block plus
// structured relationship and knowledge lists. It performs no generation
// itself; whatever consumes its output owns that concern, and a consumer
// failure never invalidates the assembled context.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundprediction/triago/pkg/search"
	"github.com/soundprediction/triago/pkg/types"
)

// Defaults for retrieval-tuned assembly.
const (
	// DefaultMinRelevance is lower than the search default so weak but
	// related context still reaches the prompt.
	DefaultMinRelevance = 0.05

	// DefaultLimit keeps prompts small; generation quality degrades with
	// long low-relevance tails.
	DefaultLimit = 8

	// DefaultMaxContextChars bounds the rendered context block.
	DefaultMaxContextChars = 2000
)

// Config tunes the assembler.
type Config struct {
	// MinRelevance overrides the search relevance floor. Zero means
	// DefaultMinRelevance.
	MinRelevance float64 `json:"min_relevance" yaml:"min_relevance" mapstructure:"min_relevance"`

	// Limit caps retrieved nodes. Zero means DefaultLimit.
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// MaxContextChars bounds ContextString. Zero means
	// DefaultMaxContextChars.
	MaxContextChars int `json:"max_context_chars" yaml:"max_context_chars" mapstructure:"max_context_chars"`
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		MinRelevance:    DefaultMinRelevance,
		Limit:           DefaultLimit,
		MaxContextChars: DefaultMaxContextChars,
	}
}

// Assembler turns a free-text question into grounded prompt context.
type Assembler struct {
	searcher *search.Searcher
	config   *Config
	logger   *slog.Logger
}

// NewAssembler builds an Assembler over a searcher. A nil config uses
// defaults; a nil logger uses slog.Default.
func NewAssembler(searcher *search.Searcher, config *Config, logger *slog.Logger) *Assembler {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	if cfg.MinRelevance == 0 {
		cfg.MinRelevance = DefaultMinRelevance
	}
	if cfg.Limit == 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.MaxContextChars == 0 {
		cfg.MaxContextChars = DefaultMaxContextChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{searcher: searcher, config: &cfg, logger: logger}
}

// Assemble retrieves context for queryText. The same query against the same
// store yields the same context, confidence included.
func (a *Assembler) Assemble(ctx context.Context, queryText string) (*types.RAGContext, error) {
	results, err := a.searcher.Search(ctx, &types.HybridSearchQuery{
		Text:         queryText,
		MinRelevance: a.config.MinRelevance,
		Limit:        a.config.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	assembled := &types.RAGContext{
		Query:         queryText,
		ContextString: renderContext(results.Results, a.config.MaxContextChars),
		Relationships: relationships(results.EntityGraph),
		Knowledge:     knowledge(results.Results),
		Confidence:    confidence(results.Results),
	}
	a.logger.Debug("assembled retrieval context",
		"query", queryText,
		"knowledge", len(assembled.Knowledge),
		"relationships", len(assembled.Relationships),
		"confidence", assembled.Confidence)
	return assembled, nil
}

// renderContext renders one line per node in score order, stopping before
// the block would exceed maxChars. A node either fits whole or is dropped;
// lines are never cut mid-way.
func renderContext(results []*types.SearchResult, maxChars int) string {
	var b strings.Builder
	for _, result := range results {
		line := renderNode(result.Node)
		needed := len(line)
		if b.Len() > 0 {
			needed++
		}
		if b.Len()+needed > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}

// renderNode formats "Name (type): description; key: value, ..." with
// properties in sorted key order.
func renderNode(node *types.Node) string {
	var b strings.Builder
	b.WriteString(node.Name)
	b.WriteString(" (")
	b.WriteString(string(node.Type))
	b.WriteString(")")

	if desc := node.Description(); desc != "" {
		b.WriteString(": ")
		b.WriteString(desc)
	}
	first := true
	for _, key := range node.PropertyKeys() {
		if key == "description" {
			continue
		}
		if first {
			b.WriteString("; ")
			first = false
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", key, node.Properties[key])
	}
	return b.String()
}

func relationships(graph *types.EntityGraph) []types.Relationship {
	names := make(map[string]string, len(graph.Nodes))
	for _, node := range graph.Nodes {
		names[node.ID] = node.Name
	}
	rels := make([]types.Relationship, 0, len(graph.Edges))
	for _, edge := range graph.Edges {
		rels = append(rels, types.Relationship{
			SourceID:   edge.Source,
			SourceName: names[edge.Source],
			TargetID:   edge.Target,
			TargetName: names[edge.Target],
			Type:       edge.Type,
			Weight:     edge.Weight,
		})
	}
	return rels
}

func knowledge(results []*types.SearchResult) []types.KnowledgeItem {
	items := make([]types.KnowledgeItem, 0, len(results))
	for _, result := range results {
		items = append(items, types.KnowledgeItem{
			ID:         result.Node.ID,
			Name:       result.Node.Name,
			Type:       result.Node.Type,
			Score:      result.Score,
			MatchType:  result.MatchType,
			Properties: result.Node.Properties,
		})
	}
	return items
}

// confidence blends the top score with how many results agree. A lone hit
// tops out at 0.68 of its score; five or more consistent hits pass the top
// score through unchanged.
func confidence(results []*types.SearchResult) float64 {
	if len(results) == 0 {
		return 0
	}
	count := len(results)
	if count > 5 {
		count = 5
	}
	countFactor := float64(count) / 5.0
	return results[0].Score * (0.6 + 0.4*countFactor)
}
