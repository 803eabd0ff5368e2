// Package kb loads the hospital knowledge base that backs the search engine.
//
// A knowledge base is a flat YAML document of typed nodes and weighted edges.
// Load reads one from disk; Builtin returns the compiled-in dataset used when
// no file is configured. Both produce an immutable store.Store.
package kb

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

// File is the on-disk knowledge base document.
type File struct {
	Nodes []*types.Node `yaml:"nodes"`
	Edges []*types.Edge `yaml:"edges"`
}

// Load reads a YAML knowledge base from path and builds a store.
func Load(path string, logger *slog.Logger) (*store.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	st, err := Parse(data, logger)
	if err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", path, err)
	}
	return st, nil
}

// Parse unmarshals a YAML knowledge base document and builds a store.
// Invalid entries are dropped with a warning instead of failing the whole
// load: one malformed row in a hand-edited file should not block startup.
// An empty or fully invalid document still fails.
func Parse(data []byte, logger *slog.Logger) (*store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	nodes, edges := sanitize(&file, logger)
	return store.NewStore(nodes, edges)
}

// sanitize drops nodes that fail validation or repeat an id, then drops
// edges that fail validation or reference a dropped node.
func sanitize(file *File, logger *slog.Logger) ([]*types.Node, []*types.Edge) {
	nodes := make([]*types.Node, 0, len(file.Nodes))
	kept := make(map[string]bool, len(file.Nodes))
	for i, node := range file.Nodes {
		if node == nil {
			continue
		}
		if err := node.Validate(); err != nil {
			logger.Warn("skipping invalid node", "index", i, "id", node.ID, "error", err)
			continue
		}
		if kept[node.ID] {
			logger.Warn("skipping duplicate node id", "index", i, "id", node.ID)
			continue
		}
		kept[node.ID] = true
		nodes = append(nodes, node)
	}

	edges := make([]*types.Edge, 0, len(file.Edges))
	for i, edge := range file.Edges {
		if edge == nil {
			continue
		}
		if err := edge.Validate(); err != nil {
			logger.Warn("skipping invalid edge", "index", i, "error", err)
			continue
		}
		if !kept[edge.SourceID] || !kept[edge.TargetID] {
			logger.Warn("skipping edge with unknown endpoint",
				"index", i, "source", edge.SourceID, "target", edge.TargetID)
			continue
		}
		edges = append(edges, edge)
	}
	return nodes, edges
}
