package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/triago"
	"github.com/soundprediction/triago/pkg/config"
	"github.com/soundprediction/triago/pkg/kb"
	"github.com/soundprediction/triago/pkg/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st, err := kb.Builtin()
	require.NoError(t, err)

	log := logger.NewLogger(io.Discard, slog.LevelError)
	client, err := triago.NewClient(st, nil, nil, nil, log)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 0,
			Mode: gin.TestMode,
		},
	}

	s := New(cfg, client, nil, log)
	s.Setup()
	return s
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"liveness", http.MethodGet, "/live", "", http.StatusOK},
		{"readiness", http.MethodGet, "/ready", "", http.StatusOK},
		{"detailed health", http.MethodGet, "/health/detailed", "", http.StatusOK},
		{"stats", http.MethodGet, "/api/v1/stats", "", http.StatusOK},
		{"search post", http.MethodPost, "/api/v1/search", `{"query": "chemical spill"}`, http.StatusOK},
		{"search get", http.MethodGet, "/api/v1/search?q=chemical+spill", "", http.StatusOK},
		{"rag context", http.MethodPost, "/api/v1/rag/context", `{"question": "chemical spill"}`, http.StatusOK},
		{"pending alerts", http.MethodGet, "/api/v1/alerts/pending", "", http.StatusOK},
		{"incident", http.MethodPost, "/api/v1/incidents", `{"type": "fire", "severity": "high"}`, http.StatusCreated},
		{"unknown route", http.MethodGet, "/api/v1/nonexistent", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodOptions, "/api/v1/search", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRequestIDAssigned(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-triage-42")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-triage-42", w.Header().Get("X-Request-ID"))
}

func TestStopWithoutStart(t *testing.T) {
	s := newTestServer(t)

	// Shutdown on a never-started server returns nil, and a nil recorder
	// must not panic the flush.
	require.NoError(t, s.Stop(context.Background()))
}
