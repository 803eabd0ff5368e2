package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/triago"
	"github.com/soundprediction/triago/pkg/types"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	triago triago.Triago
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(client triago.Triago) *HealthHandler {
	return &HealthHandler{
		triago: client,
	}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "triago",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// ReadinessCheck handles GET /ready
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := gin.H{
		"status":    "ready",
		"service":   "triago",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    gin.H{},
	}

	allHealthy := true
	checks := response["checks"].(gin.H)

	if h.triago != nil {
		stats := h.triago.Stats(ctx)
		if stats != nil && stats.NodeCount > 0 {
			checks["store"] = gin.H{
				"status": "healthy",
				"nodes":  stats.NodeCount,
				"edges":  stats.EdgeCount,
			}
		} else {
			checks["store"] = gin.H{
				"status": "unhealthy",
				"error":  "knowledge base is empty",
			}
			allHealthy = false
		}

		// A miss on a nonexistent id proves the lookup path works without
		// side effects.
		probeStart := time.Now()
		_, err := h.triago.GetNode(ctx, "readiness-probe-nonexistent-id")
		probeDuration := time.Since(probeStart)

		if errors.Is(err, triago.ErrNodeNotFound) {
			checks["lookup"] = gin.H{
				"status":   "healthy",
				"duration": probeDuration.String(),
			}
		} else {
			checks["lookup"] = gin.H{
				"status":   "unhealthy",
				"error":    "unexpected lookup result",
				"duration": probeDuration.String(),
			}
			allHealthy = false
		}
	} else {
		checks["store"] = gin.H{
			"status": "unhealthy",
			"error":  "triago client not initialized",
		}
		allHealthy = false
	}

	if !allHealthy {
		response["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// LivenessCheck handles GET /live - Kubernetes liveness probe endpoint
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   "triago",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DetailedHealthCheck handles GET /health/detailed - comprehensive health information
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	startTime := time.Now()
	response := gin.H{
		"status":  "healthy",
		"service": "triago",
		"version": Version,
		"build_info": gin.H{
			"git_commit": GitCommit,
			"build_time": BuildTime,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"environment": gin.H{
			"go_version": GoVersion,
		},
		"checks": gin.H{},
		"metrics": gin.H{
			"response_time_ms": 0, // Will be set at the end
		},
	}

	allHealthy := true
	checks := response["checks"].(gin.H)

	if h.triago != nil {
		stats := h.triago.Stats(ctx)
		storeStatus := gin.H{
			"status": "healthy",
		}
		if stats != nil && stats.NodeCount > 0 {
			storeStatus["nodes"] = stats.NodeCount
			storeStatus["edges"] = stats.EdgeCount
			byType := gin.H{}
			for _, tc := range stats.NodesByType {
				byType[string(tc.Type)] = tc.Count
			}
			storeStatus["nodes_by_type"] = byType
		} else {
			storeStatus["status"] = "unhealthy"
			storeStatus["error"] = "knowledge base is empty"
			allHealthy = false
		}
		checks["store"] = storeStatus

		// Exact index probe: a miss must return cleanly.
		exactStart := time.Now()
		_, exactErr := h.triago.ExactSearch(ctx, "health-check-probe")
		exactDuration := time.Since(exactStart)

		exactStatus := gin.H{
			"status":      "healthy",
			"duration_ms": exactDuration.Milliseconds(),
			"operation":   "ExactSearch",
		}
		if exactErr != nil {
			exactStatus["status"] = "unhealthy"
			exactStatus["error"] = exactErr.Error()
			allHealthy = false
		}
		checks["exact_index"] = exactStatus

		// Full pipeline probe.
		searchStart := time.Now()
		_, searchErr := h.triago.Search(ctx, &types.HybridSearchQuery{Text: "health check", Limit: 1})
		searchDuration := time.Since(searchStart)

		searchStatus := gin.H{
			"status":      "healthy",
			"duration_ms": searchDuration.Milliseconds(),
			"operation":   "Search",
		}
		if searchErr != nil {
			searchStatus["status"] = "unhealthy"
			searchStatus["error"] = searchErr.Error()
			allHealthy = false
		}
		checks["search_pipeline"] = searchStatus
	} else {
		checks["triago_client"] = gin.H{
			"status": "unhealthy",
			"error":  "client not initialized",
		}
		allHealthy = false
	}

	systemMetrics := h.getSystemMetrics()
	checks["system"] = gin.H{
		"status":       "healthy",
		"memory_usage": systemMetrics.MemoryUsage,
		"goroutines":   systemMetrics.Goroutines,
		"gc_cycles":    systemMetrics.GCCycles,
		"heap_objects": systemMetrics.HeapObjects,
		"stack_usage":  systemMetrics.StackUsage,
	}

	totalDuration := time.Since(startTime)
	response["metrics"].(gin.H)["response_time_ms"] = totalDuration.Milliseconds()

	if !allHealthy {
		response["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SystemMetrics holds system runtime metrics
type SystemMetrics struct {
	MemoryUsage string `json:"memory_usage"`
	Goroutines  int    `json:"goroutines"`
	GCCycles    uint32 `json:"gc_cycles"`
	HeapObjects uint64 `json:"heap_objects"`
	StackUsage  string `json:"stack_usage"`
}

// getSystemMetrics collects current system runtime metrics
func (h *HealthHandler) getSystemMetrics() SystemMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	memoryUsage := fmt.Sprintf("%.2f MB", float64(m.Alloc)/(1024*1024))
	stackUsage := fmt.Sprintf("%.2f MB", float64(m.StackSys)/(1024*1024))

	return SystemMetrics{
		MemoryUsage: memoryUsage,
		Goroutines:  runtime.NumGoroutine(),
		GCCycles:    m.NumGC,
		HeapObjects: m.HeapObjects,
		StackUsage:  stackUsage,
	}
}
