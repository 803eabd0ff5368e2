package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/triago"
	"github.com/soundprediction/triago/pkg/alertstore"
	"github.com/soundprediction/triago/pkg/server/dto"
	"github.com/soundprediction/triago/pkg/telemetry"
	"github.com/soundprediction/triago/pkg/types"
)

// respondError maps engine errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, triago.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
	case errors.Is(err, triago.ErrNodeNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, alertstore.ErrAlertNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "alert_not_found", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: err.Error()})
	}
}

// SearchHandler handles search and diagnostic requests.
type SearchHandler struct {
	triago   triago.Triago
	recorder *telemetry.SearchRecorder
	logger   *slog.Logger
}

// NewSearchHandler creates a new search handler. recorder may be nil.
func NewSearchHandler(client triago.Triago, recorder *telemetry.SearchRecorder, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{
		triago:   client,
		recorder: recorder,
		logger:   logger,
	}
}

// Search handles POST /api/v1/search.
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	h.run(c, req.Mode, req.ToQuery())
}

// SearchGET handles GET /api/v1/search with query parameters.
func (h *SearchHandler) SearchGET(c *gin.Context) {
	query := &types.HybridSearchQuery{Text: c.Query("q")}
	if query.Text == "" {
		query.Text = c.Query("query")
	}

	if v := c.Query("maxHops"); v != "" {
		hops, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "maxHops must be an integer"})
			return
		}
		query.MaxHops = &hops
	}
	if v := c.Query("minRelevance"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "minRelevance must be a number"})
			return
		}
		query.MinRelevance = min
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "limit must be an integer"})
			return
		}
		query.Limit = limit
	}
	for _, t := range c.QueryArray("nodeType") {
		query.NodeTypes = append(query.NodeTypes, types.NodeType(t))
	}

	h.run(c, c.Query("mode"), query)
}

// Stats handles GET /api/v1/stats.
func (h *SearchHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.triago.Stats(c.Request.Context()))
}

// run dispatches one query and renders the selected mode's payload.
func (h *SearchHandler) run(c *gin.Context, modeStr string, query *types.HybridSearchQuery) {
	mode, err := types.ParseMode(modeStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	result, err := h.triago.Query(ctx, mode, query)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(ctx, query.Text, result, time.Since(start))

	switch {
	case result.Search != nil:
		c.JSON(http.StatusOK, result.Search)
	case result.Emergency != nil:
		c.JSON(http.StatusOK, result.Emergency)
	case result.Context != nil:
		c.JSON(http.StatusOK, result.Context)
	case result.Stats != nil:
		c.JSON(http.StatusOK, result.Stats)
	default:
		c.JSON(http.StatusOK, result)
	}
}

// audit appends one search-audit row. Best effort; failures only log.
func (h *SearchHandler) audit(ctx context.Context, queryText string, result *triago.QueryResult, elapsed time.Duration) {
	if h.recorder == nil {
		return
	}

	rec := telemetry.SearchRecord{
		Query:      queryText,
		Mode:       string(result.Mode),
		DurationMs: elapsed.Milliseconds(),
	}
	var stats *types.SearchStats
	switch {
	case result.Search != nil:
		stats = &result.Search.Stats
	case result.Emergency != nil:
		stats = &result.Emergency.Stats
	}
	if stats != nil {
		rec.ExactMatches = stats.ExactMatches
		rec.SemanticMatches = stats.SemanticMatches
		rec.GraphMatches = stats.GraphMatches
		rec.TotalMatches = stats.TotalMatches
		rec.NodesScanned = stats.NodesScanned
		rec.EdgesScanned = stats.EdgesScanned
		rec.SeedCount = stats.SeedCount
	}

	if err := h.recorder.Record(ctx, rec); err != nil {
		h.logger.Warn("search audit failed", "error", err)
	}
}
