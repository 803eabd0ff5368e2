package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/triago"
	"github.com/soundprediction/triago/pkg/server/dto"
)

// RAGHandler handles retrieval-context and answer requests.
type RAGHandler struct {
	triago triago.Triago
}

// NewRAGHandler creates a new RAG handler.
func NewRAGHandler(client triago.Triago) *RAGHandler {
	return &RAGHandler{
		triago: client,
	}
}

// Context handles POST /api/v1/rag/context.
func (h *RAGHandler) Context(c *gin.Context) {
	var req dto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	assembled, err := h.triago.AssembleContext(c.Request.Context(), req.Question)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assembled)
}

// Answer handles POST /api/v1/rag/answer. When generation is unavailable
// the assembled context still comes back, under a 503.
func (h *RAGHandler) Answer(c *gin.Context) {
	var req dto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	answer, err := h.triago.Answer(c.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, triago.ErrGenerationUnavailable) && answer != nil {
			c.JSON(http.StatusServiceUnavailable, dto.AnswerFallback{
				Error:    "generation_unavailable",
				Question: answer.Question,
				Context:  answer.Context,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}
