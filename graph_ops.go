package triago

import (
	"context"
	"errors"

	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

// GetNode retrieves a node by id.
func (c *Client) GetNode(ctx context.Context, nodeID string) (*types.Node, error) {
	return c.store.GetNode(nodeID)
}

// Neighbors returns the outgoing (edge, node) pairs of a node in edge
// insertion order.
func (c *Client) Neighbors(ctx context.Context, nodeID string) ([]store.Neighbor, error) {
	return c.store.Neighbors(nodeID)
}

// AllNodes returns nodes in insertion order, optionally filtered to the
// given types.
func (c *Client) AllNodes(ctx context.Context, filter ...types.NodeType) []*types.Node {
	return c.store.AllNodes(filter...)
}

// Stats returns store-wide totals with per-type node counts.
func (c *Client) Stats(ctx context.Context) *types.StoreStats {
	return c.store.Stats()
}

// Close closes the client's collaborators. The store itself holds no
// resources.
func (c *Client) Close(ctx context.Context) error {
	var errs []error
	if c.nlp != nil {
		if err := c.nlp.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.alerts != nil {
		if err := c.alerts.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
