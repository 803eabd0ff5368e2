package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/triago/pkg/logger"
	"github.com/soundprediction/triago/pkg/server/dto"
	"github.com/soundprediction/triago/pkg/types"
)

func newIncidentRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewIncidentHandler(newTestClient(t), logger.NewLogger(io.Discard, slog.LevelError))
	router := gin.New()
	router.POST("/api/v1/incidents", h.Report)
	router.GET("/api/v1/alerts/pending", h.PendingAlerts)
	router.POST("/api/v1/alerts/:id/decision", h.Decide)
	return router
}

func TestReportIncident(t *testing.T) {
	router := newIncidentRouter(t)

	body := `{"type":"chemical_spill","severity":"critical","location":"Loading Dock B","description":"Solvent drum ruptured"}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/incidents", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var response types.IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Results)
	assert.Len(t, response.Results.Buckets, len(types.EmergencyBucketTypes()))

	require.NotNil(t, response.Alert)
	assert.NotEmpty(t, response.Alert.ID)
	assert.Equal(t, types.AlertPending, response.Alert.Status)
	assert.Equal(t, types.SeverityCritical, response.Alert.Severity)
	assert.Equal(t, []string{"Toxicology", "Burn Unit", "Emergency Room"}, response.Alert.Departments)
}

func TestReportIncidentValidation(t *testing.T) {
	router := newIncidentRouter(t)

	// Missing type fails binding.
	w := doJSON(t, router, http.MethodPost, "/api/v1/incidents", `{"severity":"high"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown severity fails the report contract.
	w = doJSON(t, router, http.MethodPost, "/api/v1/incidents", `{"type":"fire","severity":"catastrophic"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request")
}

func TestAlertDecisionFlow(t *testing.T) {
	router := newIncidentRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/incidents", `{"type":"fire","severity":"high"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var response types.IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Alert)
	alertID := response.Alert.ID

	w = doJSON(t, router, http.MethodGet, "/api/v1/alerts/pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	var pending dto.PendingAlertsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	require.Equal(t, 1, pending.Total)
	assert.Equal(t, alertID, pending.Alerts[0].ID)

	path := fmt.Sprintf("/api/v1/alerts/%s/decision", alertID)
	w = doJSON(t, router, http.MethodPost, path, `{"decision":"acknowledged"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var decided types.HospitalAlert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decided))
	assert.Equal(t, types.AlertAcknowledged, decided.Status)
	require.NotNil(t, decided.DecidedAt)

	w = doJSON(t, router, http.MethodGet, "/api/v1/alerts/pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	assert.Zero(t, pending.Total)
}

func TestDecisionValidation(t *testing.T) {
	router := newIncidentRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/alerts/some-id/decision", `{"decision":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// "pending" parses but is not a decision.
	w = doJSON(t, router, http.MethodPost, "/api/v1/alerts/some-id/decision", `{"decision":"pending"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/alerts/no-such-alert/decision", `{"decision":"dismissed"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "alert_not_found")
}
