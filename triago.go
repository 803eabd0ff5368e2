package triago

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soundprediction/triago/pkg/alert"
	"github.com/soundprediction/triago/pkg/alertstore"
	"github.com/soundprediction/triago/pkg/config"
	"github.com/soundprediction/triago/pkg/kb"
	"github.com/soundprediction/triago/pkg/nlp"
	"github.com/soundprediction/triago/pkg/rag"
	"github.com/soundprediction/triago/pkg/search"
	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

// Triago is the main interface for querying the hospital emergency
// knowledge graph. It provides hybrid retrieval over a static store,
// retrieval-context assembly for downstream generation, and incident
// orchestration backed by the alert store.
type Triago interface {
	// Search performs hybrid search across the knowledge graph combining
	// exact term lookup, lexical relevance scoring, and bounded graph
	// traversal.
	Search(ctx context.Context, query *types.HybridSearchQuery) (*types.SearchResults, error)

	// ExactSearch resolves the query text through the exact-match index
	// only. A miss is an empty result set, not an error.
	ExactSearch(ctx context.Context, text string) (*types.SearchResults, error)

	// EmergencySearch runs the incident-response preset and returns one
	// result bucket per emergency node type.
	EmergencySearch(ctx context.Context, text string) (*types.EmergencyResults, error)

	// Query runs the entry point selected by mode and returns the union
	// result shape.
	Query(ctx context.Context, mode types.Mode, query *types.HybridSearchQuery) (*QueryResult, error)

	// AssembleContext retrieves a generation-ready context block for a
	// free-text question. It performs no generation itself.
	AssembleContext(ctx context.Context, question string) (*types.RAGContext, error)

	// Answer assembles retrieval context and asks the language-model
	// collaborator for a grounded answer. On generation failure the
	// assembled context is still returned alongside the error.
	Answer(ctx context.Context, question string) (*types.RAGAnswer, error)

	// HandleIncident orchestrates an incident report: emergency search,
	// optional language-model analysis, and a pending hospital alert.
	HandleIncident(ctx context.Context, report *types.IncidentReport) (*types.IncidentResponse, error)

	// GetNode retrieves a specific node from the knowledge graph.
	GetNode(ctx context.Context, nodeID string) (*types.Node, error)

	// Neighbors returns the outgoing (edge, node) pairs of a node in edge
	// insertion order.
	Neighbors(ctx context.Context, nodeID string) ([]store.Neighbor, error)

	// AllNodes returns nodes in insertion order, optionally filtered to
	// the given types.
	AllNodes(ctx context.Context, filter ...types.NodeType) []*types.Node

	// Stats returns store-wide totals with per-type node counts.
	Stats(ctx context.Context) *types.StoreStats

	// PendingAlerts returns undecided hospital alerts, oldest first.
	PendingAlerts(ctx context.Context) ([]*types.HospitalAlert, error)

	// DecideAlert records an operator decision on a hospital alert and
	// returns the updated alert.
	DecideAlert(ctx context.Context, alertID string, status types.AlertStatus) (*types.HospitalAlert, error)

	// Close closes all collaborators and cleans up resources.
	Close(ctx context.Context) error
}

// Client is the main implementation of the Triago interface.
type Client struct {
	store     *store.Store
	searcher  *search.Searcher
	assembler *rag.Assembler
	nlp       nlp.Client
	alerts    alertstore.Store
	config    *Config
	logger    *slog.Logger
}

// Config holds configuration for the Triago client.
type Config struct {
	// Search tunes the hybrid pipeline.
	Search *search.SearchConfig
	// RAG tunes retrieval-context assembly.
	RAG *rag.Config
}

// NewClient creates a new Triago client over an already-built store. The
// nlp client and alert store are optional: without an nlp client, Answer
// and incident analysis report ErrGenerationUnavailable, and a nil alert
// store falls back to the in-memory backend.
func NewClient(st *store.Store, nlpClient nlp.Client, alerts alertstore.Store, config *Config, logger *slog.Logger) (*Client, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: no store provided", ErrStoreEmpty)
	}
	if config == nil {
		config = &Config{}
	}
	if config.Search == nil {
		config.Search = search.NewDefaultSearchConfig()
	}
	if config.RAG == nil {
		config.RAG = rag.NewDefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if alerts == nil {
		alerts = alertstore.NewMemoryStore()
	}

	searcher := search.NewSearcher(st, config.Search, logger)
	assembler := rag.NewAssembler(searcher, config.RAG, logger)

	return &Client{
		store:     st,
		searcher:  searcher,
		assembler: assembler,
		nlp:       nlpClient,
		alerts:    alerts,
		config:    config,
		logger:    logger,
	}, nil
}

// New builds a fully wired client from file configuration: the knowledge
// base (configured path or builtin dataset), the language-model
// collaborator behind retry and circuit-breaker wrappers when enabled,
// and the configured alert store.
func New(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	st, err := loadStore(cfg.KB, logger)
	if err != nil {
		return nil, err
	}

	var nlpClient nlp.Client
	if cfg.NLP.Enabled {
		nlpClient, err = nlp.NewClient(cfg.NLP)
		if err != nil {
			return nil, fmt.Errorf("build nlp client: %w", err)
		}
		var alerter alert.Alerter = &alert.NoOpAlerter{}
		if cfg.Alert.Enabled {
			alerter = alert.NewEmailAlerter(cfg.Alert)
		}
		// Retry sits inside the breaker so exhausted retries count as a
		// single failure toward tripping it.
		nlpClient = nlp.NewRetryClient(nlpClient, nil)
		nlpClient = nlp.NewCircuitBreakerClient(nlpClient, cfg.CircuitBreaker, alerter, logger, "nlp")
	}

	alerts, err := alertstore.New(cfg.AlertStore, logger)
	if err != nil {
		return nil, fmt.Errorf("build alert store: %w", err)
	}

	clientConfig := &Config{
		Search: &search.SearchConfig{
			DecayFactor: cfg.Search.DecayFactor,
			SeedLimit:   cfg.Search.SeedLimit,
		},
		RAG: &rag.Config{
			MinRelevance:    cfg.RAG.MinRelevance,
			Limit:           cfg.RAG.Limit,
			MaxContextChars: cfg.RAG.MaxContextChars,
		},
	}
	return NewClient(st, nlpClient, alerts, clientConfig, logger)
}

// loadStore loads the configured knowledge base, falling back to the
// builtin hospital dataset when no path is set.
func loadStore(cfg config.KBConfig, logger *slog.Logger) (*store.Store, error) {
	if cfg.Path == "" {
		logger.Info("loading builtin knowledge base")
		return kb.Builtin()
	}
	logger.Info("loading knowledge base", "path", cfg.Path)
	return kb.Load(cfg.Path, logger)
}

var _ Triago = (*Client)(nil)

// GetStore returns the underlying knowledge graph store.
func (c *Client) GetStore() *store.Store {
	return c.store
}

// GetSearcher returns the hybrid searcher.
func (c *Client) GetSearcher() *search.Searcher {
	return c.searcher
}

// GetAssembler returns the retrieval-context assembler.
func (c *Client) GetAssembler() *rag.Assembler {
	return c.assembler
}

// GetNLP returns the language-model client, or nil when generation is not
// configured.
func (c *Client) GetNLP() nlp.Client {
	return c.nlp
}

// GetAlertStore returns the hospital-alert store.
func (c *Client) GetAlertStore() alertstore.Store {
	return c.alerts
}

var (
	// ErrInvalidQuery is returned for malformed queries: empty text,
	// negative hop budgets, unknown modes.
	ErrInvalidQuery = types.ErrInvalidQuery
	// ErrNodeNotFound is returned when a node id is not in the store.
	ErrNodeNotFound = store.ErrNodeNotFound
	// ErrStoreEmpty is returned when a client is built without nodes.
	ErrStoreEmpty = store.ErrEmptyStore
	// ErrGenerationUnavailable is returned when the language-model
	// collaborator is missing or failing. The retrieval output returned
	// alongside it remains valid.
	ErrGenerationUnavailable = errors.New("text generation unavailable")
)
