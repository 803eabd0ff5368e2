package dto

import (
	"github.com/soundprediction/triago/pkg/types"
)

// SearchRequest represents a search request body.
type SearchRequest struct {
	Query        string   `json:"query" binding:"required"`
	Mode         string   `json:"mode,omitempty"`
	NodeTypes    []string `json:"nodeTypes,omitempty"`
	MaxHops      *int     `json:"maxHops,omitempty"`
	MinRelevance float64  `json:"minRelevance,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

// ToQuery converts the request into the engine's query contract.
func (r *SearchRequest) ToQuery() *types.HybridSearchQuery {
	nodeTypes := make([]types.NodeType, 0, len(r.NodeTypes))
	for _, t := range r.NodeTypes {
		nodeTypes = append(nodeTypes, types.NodeType(t))
	}
	return &types.HybridSearchQuery{
		Text:         r.Query,
		NodeTypes:    nodeTypes,
		MaxHops:      r.MaxHops,
		MinRelevance: r.MinRelevance,
		Limit:        r.Limit,
	}
}

// QuestionRequest represents a RAG context or answer request body.
type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

// AnswerFallback is the degraded /rag/answer response: generation failed
// but the assembled context is still usable.
type AnswerFallback struct {
	Error    string            `json:"error"`
	Question string            `json:"question"`
	Context  *types.RAGContext `json:"context,omitempty"`
}
