package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/triago"
)

func newHealthRouter(t *testing.T, client triago.Triago) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(client)
	router := gin.New()
	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadinessCheck)
	router.GET("/live", h.LivenessCheck)
	router.GET("/health/detailed", h.DetailedHealthCheck)
	return router
}

func decodeBody(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &response))
	return response
}

func TestHealthCheck(t *testing.T) {
	router := newHealthRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "triago", response["service"])
	assert.Contains(t, response, "timestamp")
	assert.Contains(t, response, "version")
}

func TestLivenessCheck(t *testing.T) {
	router := newHealthRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/live", "")
	require.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "alive", response["status"])
}

func TestReadinessCheckWithNilClient(t *testing.T) {
	router := newHealthRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	response := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "not_ready", response["status"])

	checks, ok := response["checks"].(map[string]interface{})
	require.True(t, ok)
	store, ok := checks["store"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "unhealthy", store["status"])
}

func TestReadinessCheck(t *testing.T) {
	router := newHealthRouter(t, newTestClient(t))

	w := doJSON(t, router, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "ready", response["status"])

	checks := response["checks"].(map[string]interface{})
	store := checks["store"].(map[string]interface{})
	assert.Equal(t, "healthy", store["status"])
	assert.Equal(t, float64(53), store["nodes"])

	lookup := checks["lookup"].(map[string]interface{})
	assert.Equal(t, "healthy", lookup["status"])
}

func TestDetailedHealthCheck(t *testing.T) {
	router := newHealthRouter(t, newTestClient(t))

	w := doJSON(t, router, http.MethodGet, "/health/detailed", "")
	require.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "healthy", response["status"])
	assert.Contains(t, response, "build_info")

	checks := response["checks"].(map[string]interface{})
	for _, name := range []string{"store", "exact_index", "search_pipeline", "system"} {
		check, ok := checks[name].(map[string]interface{})
		require.True(t, ok, "missing check %s", name)
		assert.Equal(t, "healthy", check["status"], "check %s", name)
	}

	metrics := response["metrics"].(map[string]interface{})
	assert.Contains(t, metrics, "response_time_ms")
}

func TestDetailedHealthCheckWithNilClient(t *testing.T) {
	router := newHealthRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/health/detailed", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	response := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, "unhealthy", response["status"])
}

func TestGetSystemMetrics(t *testing.T) {
	handler := NewHealthHandler(nil)

	metrics := handler.getSystemMetrics()
	assert.NotEmpty(t, metrics.MemoryUsage)
	assert.GreaterOrEqual(t, metrics.Goroutines, 1)
	assert.NotEmpty(t, metrics.StackUsage)
}
