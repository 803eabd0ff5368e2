// Package alertstore persists hospital alerts produced by incident
// orchestration and records operator decisions on them. The search engine
// never reads alerts back; only the root client and the HTTP layer do.
package alertstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soundprediction/triago/pkg/config"
	"github.com/soundprediction/triago/pkg/types"
)

// StoreType defines the backend type
type StoreType string

const (
	// StoreTypeMemory keeps alerts in process memory. Default, used in tests.
	StoreTypeMemory StoreType = "memory"
	// StoreTypeBadger persists alerts in an embedded Badger database.
	StoreTypeBadger StoreType = "badger"
)

// ErrAlertNotFound is returned when no alert exists under the requested id.
var ErrAlertNotFound = errors.New("alert not found")

// Store defines the interface for alert persistence.
type Store interface {
	// SaveAlert persists an alert. An empty id is assigned a new UUID and
	// an empty status defaults to pending; both are written back to a.
	SaveAlert(ctx context.Context, a *types.HospitalAlert) error

	// GetAlert retrieves an alert by id.
	GetAlert(ctx context.Context, id string) (*types.HospitalAlert, error)

	// PendingAlerts retrieves all undecided alerts, oldest first.
	PendingAlerts(ctx context.Context) ([]*types.HospitalAlert, error)

	// Decide records an operator decision on an alert and returns the
	// updated alert.
	Decide(ctx context.Context, id string, status types.AlertStatus) (*types.HospitalAlert, error)

	// Close releases backend resources.
	Close() error
}

// New creates a Store from configuration. An empty type defaults to memory.
func New(cfg config.AlertStoreConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch StoreType(cfg.Type) {
	case StoreTypeMemory, "":
		return NewMemoryStore(), nil

	case StoreTypeBadger:
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger alert store requires a path")
		}
		return NewBadgerStore(cfg.Path, logger)

	default:
		return nil, fmt.Errorf("unsupported alert store type: %s (supported: memory, badger)", cfg.Type)
	}
}

// validDecision reports whether status is an operator decision.
func validDecision(status types.AlertStatus) error {
	if status != types.AlertAcknowledged && status != types.AlertDismissed {
		return fmt.Errorf("invalid decision %q (must be %s or %s)", status, types.AlertAcknowledged, types.AlertDismissed)
	}
	return nil
}
