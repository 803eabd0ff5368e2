package triago_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/triago"
	"github.com/soundprediction/triago/pkg/config"
	"github.com/soundprediction/triago/pkg/kb"
	"github.com/soundprediction/triago/pkg/logger"
	"github.com/soundprediction/triago/pkg/nlp"
	"github.com/soundprediction/triago/pkg/types"
)

// scriptedModel is a canned nlp.Client for exercising generation paths
// without a live provider.
type scriptedModel struct {
	chatResp       *types.Response
	chatErr        error
	structuredResp *types.Response
	structuredErr  error

	chatCalls       [][]types.Message
	structuredCalls [][]types.Message
}

var _ nlp.Client = (*scriptedModel)(nil)

func (m *scriptedModel) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	m.chatCalls = append(m.chatCalls, messages)
	if m.chatErr != nil {
		return nil, m.chatErr
	}
	return m.chatResp, nil
}

func (m *scriptedModel) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	m.structuredCalls = append(m.structuredCalls, messages)
	if m.structuredErr != nil {
		return nil, m.structuredErr
	}
	return m.structuredResp, nil
}

func (m *scriptedModel) Close() error { return nil }

func newTestClient(t *testing.T, model nlp.Client) *triago.Client {
	t.Helper()
	st, err := kb.Builtin()
	require.NoError(t, err)
	client, err := triago.NewClient(st, model, nil, nil, logger.NewLogger(io.Discard, slog.LevelError))
	require.NoError(t, err)
	return client
}

func resultIDs(results *types.SearchResults) []string {
	ids := make([]string, len(results.Results))
	for i, r := range results.Results {
		ids[i] = r.Node.ID
	}
	return ids
}

func findResult(results *types.SearchResults, id string) *types.SearchResult {
	for _, r := range results.Results {
		if r.Node.ID == id {
			return r
		}
	}
	return nil
}

func TestNewClientRequiresStore(t *testing.T) {
	_, err := triago.NewClient(nil, nil, nil, nil, nil)
	require.ErrorIs(t, err, triago.ErrStoreEmpty)
}

func TestNewClientDefaults(t *testing.T) {
	client := newTestClient(t, nil)

	assert.NotNil(t, client.GetStore())
	assert.NotNil(t, client.GetSearcher())
	assert.NotNil(t, client.GetAssembler())
	assert.NotNil(t, client.GetAlertStore())
	assert.Nil(t, client.GetNLP())
}

func TestExactLookupByNameAndAlias(t *testing.T) {
	client := newTestClient(t, nil)
	ctx := context.Background()

	results, err := client.ExactSearch(ctx, "Epinephrine 1:10000")
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	hit := results.Results[0]
	assert.Equal(t, "epinephrine-1-10000", hit.Node.ID)
	assert.Equal(t, types.MatchTypeExact, hit.MatchType)
	assert.Equal(t, 1.0, hit.Score)
	assert.Equal(t, 1, results.Stats.ExactMatches)

	// Aliases resolve to the exact dilution they name.
	results, err = client.ExactSearch(ctx, "epi 1:1000")
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	assert.Equal(t, "epinephrine-1-1000", results.Results[0].Node.ID)

	// A dilution that does not exist is a miss, not an error.
	results, err = client.ExactSearch(ctx, "Epinephrine 1:100")
	require.NoError(t, err)
	assert.Empty(t, results.Results)
}

func TestHybridSpillQueryExpandsToResources(t *testing.T) {
	client := newTestClient(t, nil)

	results, err := client.Search(context.Background(), &types.HybridSearchQuery{Text: "chemical spill"})
	require.NoError(t, err)
	require.Len(t, results.Results, 15)

	protocol := results.Results[0]
	assert.Equal(t, "chemical-spill-protocol", protocol.Node.ID)
	assert.Equal(t, types.MatchTypeSemantic, protocol.MatchType)
	assert.InDelta(t, 0.85, protocol.Score, 1e-9)

	deconTeam := results.Results[1]
	assert.Equal(t, "decon-team", deconTeam.Node.ID)
	assert.Equal(t, types.MatchTypeGraph, deconTeam.MatchType)
	assert.InDelta(t, 0.85*0.9*0.8, deconTeam.Score, 1e-9)
	assert.Equal(t, []string{"chemical-spill-protocol", "decon-team"}, deconTeam.GraphPath)
	assert.Equal(t, 1, deconTeam.Hops())

	assert.Equal(t, "decon-shower", results.Results[2].Node.ID)
	assert.InDelta(t, 0.85*0.85*0.8, results.Results[2].Score, 1e-9)
	assert.Equal(t, "activated-charcoal", results.Results[3].Node.ID)
	assert.InDelta(t, 0.85*0.6*0.8, results.Results[3].Score, 1e-9)

	// HAZMAT suits match the query text directly, so they seed traversal
	// instead of arriving through it.
	suits := findResult(results, "hazmat-suits")
	require.NotNil(t, suits)
	assert.Equal(t, types.MatchTypeSemantic, suits.MatchType)

	for _, r := range results.Results {
		if r.MatchType != types.MatchTypeGraph {
			continue
		}
		assert.GreaterOrEqual(t, len(r.GraphPath), 2, "graph result %s has no path", r.Node.ID)
		assert.LessOrEqual(t, r.Hops(), 2, "graph result %s beyond hop bound", r.Node.ID)
	}

	assert.Equal(t, 0, results.Stats.ExactMatches)
	assert.Equal(t, 5, results.Stats.SemanticMatches)
	assert.Equal(t, 10, results.Stats.GraphMatches)
	assert.Equal(t, 5, results.Stats.SeedCount)
	assert.Equal(t, 15, results.Stats.TotalMatches)

	require.NotNil(t, results.EntityGraph)
	assert.Equal(t, len(results.Results), results.EntityGraph.NodeCount)
	assert.NotZero(t, results.EntityGraph.EdgeCount)
}

func TestHybridSearchIsDeterministic(t *testing.T) {
	client := newTestClient(t, nil)
	ctx := context.Background()

	first, err := client.Search(ctx, &types.HybridSearchQuery{Text: "chemical spill"})
	require.NoError(t, err)
	second, err := client.Search(ctx, &types.HybridSearchQuery{Text: "chemical spill"})
	require.NoError(t, err)

	require.Equal(t, resultIDs(first), resultIDs(second))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Score, second.Results[i].Score)
		assert.Equal(t, first.Results[i].GraphPath, second.Results[i].GraphPath)
	}
}

func TestGuardedNodesNeverSurfaceFromFuzzyQueries(t *testing.T) {
	client := newTestClient(t, nil)
	ctx := context.Background()

	// Both dilutions fuzzy-match this text; neither may be returned.
	results, err := client.Search(ctx, &types.HybridSearchQuery{Text: "epinephrine dilution"})
	require.NoError(t, err)
	assert.Empty(t, results.Results)

	// Traversal still passes through guarded nodes: the vendor behind the
	// 1:10000 dilution is reachable, with the guarded id inside the path.
	results, err = client.Search(ctx, &types.HybridSearchQuery{Text: "cardiac arrest"})
	require.NoError(t, err)
	require.NotEmpty(t, results.Results)
	for _, r := range results.Results {
		assert.NotContains(t, r.Node.ID, "epinephrine")
	}

	vendor := findResult(results, "vendor-meds")
	require.NotNil(t, vendor)
	assert.Equal(t, []string{"cardiac-arrest-protocol", "epinephrine-1-10000", "vendor-meds"}, vendor.GraphPath)
	assert.Equal(t, 2, vendor.Hops())
	assert.InDelta(t, 0.85*0.95*0.8*0.85*0.8, vendor.Score, 1e-9)
}

func TestRejectsInvalidQueries(t *testing.T) {
	client := newTestClient(t, nil)
	ctx := context.Background()

	_, err := client.Search(ctx, &types.HybridSearchQuery{Text: "   "})
	require.ErrorIs(t, err, triago.ErrInvalidQuery)

	hops := -1
	_, err = client.Search(ctx, &types.HybridSearchQuery{Text: "chemical spill", MaxHops: &hops})
	require.ErrorIs(t, err, triago.ErrInvalidQuery)

	_, err = client.Query(ctx, types.Mode("telepathy"), &types.HybridSearchQuery{Text: "chemical spill"})
	require.ErrorIs(t, err, triago.ErrInvalidQuery)
}

func TestQueryDispatchesOnMode(t *testing.T) {
	client := newTestClient(t, nil)
	ctx := context.Background()
	spill := &types.HybridSearchQuery{Text: "chemical spill"}

	res, err := client.Query(ctx, types.ModeHybrid, spill)
	require.NoError(t, err)
	assert.Equal(t, types.ModeHybrid, res.Mode)
	require.NotNil(t, res.Search)
	assert.Nil(t, res.Emergency)
	assert.Nil(t, res.Context)
	assert.Nil(t, res.Stats)

	// An empty mode means hybrid.
	res, err = client.Query(ctx, "", spill)
	require.NoError(t, err)
	assert.Equal(t, types.ModeHybrid, res.Mode)
	require.NotNil(t, res.Search)

	res, err = client.Query(ctx, types.ModeExact, &types.HybridSearchQuery{Text: "Epinephrine 1:10000"})
	require.NoError(t, err)
	require.NotNil(t, res.Search)
	require.Len(t, res.Search.Results, 1)
	assert.Equal(t, types.MatchTypeExact, res.Search.Results[0].MatchType)

	res, err = client.Query(ctx, types.ModeEmergency, spill)
	require.NoError(t, err)
	require.NotNil(t, res.Emergency)
	assert.Nil(t, res.Search)

	res, err = client.Query(ctx, types.ModeRAG, spill)
	require.NoError(t, err)
	require.NotNil(t, res.Context)

	res, err = client.Query(ctx, types.ModeStats, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Stats)
	assert.Equal(t, 53, res.Stats.NodeCount)
}

func TestEmergencySearchBucketsResponderView(t *testing.T) {
	client := newTestClient(t, nil)

	results, err := client.EmergencySearch(context.Background(), "chemical spill")
	require.NoError(t, err)
	require.Len(t, results.Buckets, len(types.EmergencyBucketTypes()))

	order := make([]types.NodeType, len(results.Buckets))
	byType := make(map[types.NodeType][]string)
	for i, bucket := range results.Buckets {
		order[i] = bucket.Type
		for _, r := range bucket.Results {
			byType[bucket.Type] = append(byType[bucket.Type], r.Node.ID)
		}
		assert.LessOrEqual(t, len(bucket.Results), 5)
	}
	assert.Equal(t, types.EmergencyBucketTypes(), order)

	assert.Equal(t, []string{"chemical-spill-protocol"}, byType[types.NodeTypeProtocol])
	assert.Equal(t, []string{"activated-charcoal", "burn-dressings"}, byType[types.NodeTypeSupply])
	assert.Equal(t, []string{"decon-shower", "hazmat-suits"}, byType[types.NodeTypeEquipment])
	assert.Equal(t, []string{"decon-team"}, byType[types.NodeTypeStaffRole])
	assert.Equal(t, []string{"toxicology", "burn-unit", "emergency-room"}, byType[types.NodeTypeDepartment])
	assert.Equal(t, []string{"chemical-burns"}, byType[types.NodeTypeCondition])
}

func TestAssembleContextRanksAndBounds(t *testing.T) {
	client := newTestClient(t, nil)

	assembled, err := client.AssembleContext(context.Background(), "chemical spill")
	require.NoError(t, err)
	assert.Equal(t, "chemical spill", assembled.Query)
	require.Len(t, assembled.Knowledge, 8)
	assert.Equal(t, "chemical-spill-protocol", assembled.Knowledge[0].ID)
	assert.InDelta(t, 0.85, assembled.Confidence, 1e-9)
	assert.NotEmpty(t, assembled.Relationships)

	protocolAt := strings.Index(assembled.ContextString, "Chemical Spill Response Protocol")
	teamAt := strings.Index(assembled.ContextString, "Decontamination Team")
	showerAt := strings.Index(assembled.ContextString, "Decontamination Shower")
	require.GreaterOrEqual(t, protocolAt, 0)
	require.GreaterOrEqual(t, teamAt, 0)
	require.GreaterOrEqual(t, showerAt, 0)
	assert.Less(t, protocolAt, teamAt)
	assert.Less(t, teamAt, showerAt)
}

func TestAnswerWithoutModelDegradesToContext(t *testing.T) {
	client := newTestClient(t, nil)

	answer, err := client.Answer(context.Background(), "how do we respond to a chemical spill?")
	require.ErrorIs(t, err, triago.ErrGenerationUnavailable)
	require.NotNil(t, answer)
	assert.Empty(t, answer.Answer)
	require.NotNil(t, answer.Context)
	assert.NotEmpty(t, answer.Context.Knowledge)
}

func TestAnswerUsesRetrievedContext(t *testing.T) {
	model := &scriptedModel{chatResp: &types.Response{
		Content: "Activate the spill protocol and stage the decontamination line.",
		Model:   "gpt-4o-mini",
	}}
	client := newTestClient(t, model)

	answer, err := client.Answer(context.Background(), "how do we respond to a chemical spill?")
	require.NoError(t, err)
	assert.Equal(t, "Activate the spill protocol and stage the decontamination line.", answer.Answer)
	assert.Equal(t, "gpt-4o-mini", answer.Model)
	require.NotNil(t, answer.Context)

	require.Len(t, model.chatCalls, 1)
	msgs := model.chatCalls[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, nlp.RoleSystem, msgs[0].Role)
	assert.Equal(t, nlp.RoleUser, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "KNOWLEDGE-GRAPH CONTEXT")
	assert.Contains(t, msgs[1].Content, "Chemical Spill Response Protocol")
	assert.Contains(t, msgs[1].Content, "how do we respond to a chemical spill?")
}

func TestAnswerSurfacesGenerationFailure(t *testing.T) {
	model := &scriptedModel{chatErr: errors.New("provider down")}
	client := newTestClient(t, model)

	answer, err := client.Answer(context.Background(), "how do we respond to a chemical spill?")
	require.ErrorIs(t, err, triago.ErrGenerationUnavailable)
	require.NotNil(t, answer)
	assert.Empty(t, answer.Answer)
	require.NotNil(t, answer.Context)
	assert.NotEmpty(t, answer.Context.ContextString)
}

func TestHandleIncidentRecordsAlert(t *testing.T) {
	client := newTestClient(t, nil)
	ctx := context.Background()

	response, err := client.HandleIncident(ctx, &types.IncidentReport{
		Type:        types.IncidentChemicalSpill,
		Severity:    types.SeverityCritical,
		Location:    "Loading Dock B",
		Description: "Drum of industrial solvent ruptured during delivery",
	})
	require.NoError(t, err)
	require.NotNil(t, response.Results)
	assert.Empty(t, response.Analysis)

	alert := response.Alert
	require.NotNil(t, alert)
	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, types.IncidentChemicalSpill, alert.IncidentType)
	assert.Equal(t, types.SeverityCritical, alert.Severity)
	assert.Equal(t, "Emergency: chemical spill at Loading Dock B", alert.Title)
	assert.Contains(t, alert.Message, "Drum of industrial solvent ruptured")
	assert.Equal(t, []string{"Toxicology", "Burn Unit", "Emergency Room"}, alert.Departments)
	assert.Equal(t, types.AlertPending, alert.Status)
	assert.False(t, alert.CreatedAt.IsZero())

	pending, err := client.PendingAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alert.ID, pending[0].ID)

	decided, err := client.DecideAlert(ctx, alert.ID, types.AlertAcknowledged)
	require.NoError(t, err)
	assert.Equal(t, types.AlertAcknowledged, decided.Status)
	require.NotNil(t, decided.DecidedAt)

	pending, err = client.PendingAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestHandleIncidentDefaultsSeverity(t *testing.T) {
	client := newTestClient(t, nil)

	response, err := client.HandleIncident(context.Background(), &types.IncidentReport{Type: types.IncidentFire})
	require.NoError(t, err)
	require.NotNil(t, response.Alert)
	assert.Equal(t, types.SeverityHigh, response.Alert.Severity)
	assert.Equal(t, "Emergency: fire", response.Alert.Title)
}

func TestHandleIncidentRejectsBadReports(t *testing.T) {
	client := newTestClient(t, nil)
	ctx := context.Background()

	_, err := client.HandleIncident(ctx, nil)
	require.ErrorIs(t, err, triago.ErrInvalidQuery)

	_, err = client.HandleIncident(ctx, &types.IncidentReport{})
	require.ErrorIs(t, err, triago.ErrInvalidQuery)

	_, err = client.HandleIncident(ctx, &types.IncidentReport{
		Type:     types.IncidentFire,
		Severity: "catastrophic",
	})
	require.ErrorIs(t, err, triago.ErrInvalidQuery)
}

func TestHandleIncidentAnnotatesWithModel(t *testing.T) {
	structured := "```json\n" + `{
  "summary": "Chemical release near the loading dock.",
  "severity_assessment": "critical",
  "recommended_actions": ["Activate the chemical spill protocol", "Stage the decontamination line"],
  "required_resources": ["HAZMAT suits", "Activated charcoal"]
}` + "\n```"
	model := &scriptedModel{structuredResp: &types.Response{Content: structured, Model: "gpt-4o-mini"}}
	client := newTestClient(t, model)

	response, err := client.HandleIncident(context.Background(), &types.IncidentReport{
		Type:     types.IncidentChemicalSpill,
		Severity: types.SeverityCritical,
	})
	require.NoError(t, err)

	assert.Contains(t, response.Analysis, "Chemical release near the loading dock.")
	assert.Contains(t, response.Analysis, "Assessed severity: critical")
	assert.Contains(t, response.Analysis, "1. Activate the chemical spill protocol")
	assert.Contains(t, response.Analysis, "2. Stage the decontamination line")
	assert.Contains(t, response.Analysis, "Required resources: HAZMAT suits, Activated charcoal")
	assert.NotContains(t, response.Analysis, "Escalation:")

	require.Len(t, model.structuredCalls, 1)
	msgs := model.structuredCalls[0]
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "- Type: chemical_spill")
	assert.Contains(t, msgs[1].Content, "KNOWLEDGE-GRAPH CONTEXT")
}

func TestGraphInspection(t *testing.T) {
	client := newTestClient(t, nil)
	ctx := context.Background()

	node, err := client.GetNode(ctx, "chemical-spill-protocol")
	require.NoError(t, err)
	assert.Equal(t, "Chemical Spill Response Protocol", node.Name)

	_, err = client.GetNode(ctx, "warp-core")
	require.ErrorIs(t, err, triago.ErrNodeNotFound)

	neighbors, err := client.Neighbors(ctx, "chemical-spill-protocol")
	require.NoError(t, err)
	assert.Len(t, neighbors, 5)

	protocols := client.AllNodes(ctx, types.NodeTypeProtocol)
	assert.Len(t, protocols, 7)

	stats := client.Stats(ctx)
	assert.Equal(t, 53, stats.NodeCount)
	assert.Equal(t, 72, stats.EdgeCount)
	assert.Len(t, stats.NodesByType, 8)
}

func TestNewFromZeroConfig(t *testing.T) {
	client, err := triago.New(&config.Config{}, logger.NewLogger(io.Discard, slog.LevelError))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	assert.Nil(t, client.GetNLP())
	stats := client.Stats(context.Background())
	assert.Equal(t, 53, stats.NodeCount)
}

func TestNewLoadsKnowledgeBaseFile(t *testing.T) {
	doc := `nodes:
  - id: oxygen
    name: Oxygen Cylinder
    type: supply
    aliases: ["o2"]
  - id: vendor-air
    name: AirGas Supply Co
    type: vendor
edges:
  - source: oxygen
    target: vendor-air
    type: suppliedBy
    weight: 0.9
`
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg := &config.Config{}
	cfg.KB.Path = path
	client, err := triago.New(cfg, logger.NewLogger(io.Discard, slog.LevelError))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	stats := client.Stats(context.Background())
	assert.Equal(t, 2, stats.NodeCount)
	assert.Equal(t, 1, stats.EdgeCount)

	results, err := client.ExactSearch(context.Background(), "o2")
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	assert.Equal(t, "oxygen", results.Results[0].Node.ID)
}

func TestCloseReleasesCollaborators(t *testing.T) {
	client := newTestClient(t, &scriptedModel{})
	assert.NoError(t, client.Close(context.Background()))
}
