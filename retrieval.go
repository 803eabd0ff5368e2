package triago

import (
	"context"
	"fmt"

	"github.com/soundprediction/triago/pkg/prompts"
	"github.com/soundprediction/triago/pkg/types"
)

// Search performs hybrid search across the knowledge graph.
func (c *Client) Search(ctx context.Context, query *types.HybridSearchQuery) (*types.SearchResults, error) {
	return c.searcher.Search(ctx, query)
}

// ExactSearch resolves the query text through the exact-match index only.
// A miss is an empty result set, not an error.
func (c *Client) ExactSearch(ctx context.Context, text string) (*types.SearchResults, error) {
	return c.searcher.ExactSearch(ctx, text)
}

// EmergencySearch runs the incident-response preset and returns one
// result bucket per emergency node type.
func (c *Client) EmergencySearch(ctx context.Context, text string) (*types.EmergencyResults, error) {
	return c.searcher.EmergencySearch(ctx, text)
}

// QueryResult is the union shape produced by Query. Exactly one field
// besides Mode is set, matching the mode that produced it.
type QueryResult struct {
	Mode      types.Mode              `json:"mode"`
	Search    *types.SearchResults    `json:"search,omitempty"`
	Emergency *types.EmergencyResults `json:"emergency,omitempty"`
	Context   *types.RAGContext       `json:"context,omitempty"`
	Stats     *types.StoreStats       `json:"stats,omitempty"`
}

// Query runs the entry point selected by mode. Modes are shortcuts over
// the same pipeline: exact forces the query text through the exact index,
// emergency partitions results into per-type buckets, rag assembles a
// generation-ready context block, and stats is a store diagnostic that
// ignores the query entirely. An empty mode selects hybrid, matching
// types.ParseMode.
func (c *Client) Query(ctx context.Context, mode types.Mode, query *types.HybridSearchQuery) (*QueryResult, error) {
	if query == nil {
		query = &types.HybridSearchQuery{}
	}

	result := &QueryResult{Mode: mode}
	switch mode {
	case types.ModeHybrid, "":
		result.Mode = types.ModeHybrid
		res, err := c.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		result.Search = res

	case types.ModeExact:
		res, err := c.ExactSearch(ctx, query.Text)
		if err != nil {
			return nil, err
		}
		result.Search = res

	case types.ModeEmergency:
		res, err := c.EmergencySearch(ctx, query.Text)
		if err != nil {
			return nil, err
		}
		result.Emergency = res

	case types.ModeRAG:
		res, err := c.AssembleContext(ctx, query.Text)
		if err != nil {
			return nil, err
		}
		result.Context = res

	case types.ModeStats:
		result.Stats = c.Stats(ctx)

	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidQuery, mode)
	}
	return result, nil
}

// AssembleContext retrieves a generation-ready context block for a
// free-text question.
func (c *Client) AssembleContext(ctx context.Context, question string) (*types.RAGContext, error) {
	return c.assembler.Assemble(ctx, question)
}

// Answer assembles retrieval context for the question and asks the
// language-model collaborator for a grounded answer. The assembled
// context travels on the returned RAGAnswer even when generation fails,
// so callers can always fall back to raw retrieval.
func (c *Client) Answer(ctx context.Context, question string) (*types.RAGAnswer, error) {
	assembled, err := c.AssembleContext(ctx, question)
	if err != nil {
		return nil, err
	}

	answer := &types.RAGAnswer{Question: question, Context: assembled}
	if c.nlp == nil {
		return answer, fmt.Errorf("%w: no language model configured", ErrGenerationUnavailable)
	}

	resp, err := c.nlp.Chat(ctx, prompts.Answer(question, assembled.ContextString))
	if err != nil {
		c.logger.Warn("answer generation failed", "question", question, "error", err)
		return answer, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	answer.Answer = resp.Content
	answer.Model = resp.Model
	return answer, nil
}
