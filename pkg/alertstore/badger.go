package alertstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/soundprediction/triago/pkg/types"
)

// alertKeyPrefix namespaces alert records in the key space.
const alertKeyPrefix = "alert:"

// BadgerStore is a Store backed by an embedded Badger database. Alerts
// survive process restarts, which the on-call workflow depends on.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string, logger *slog.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open alert store at %s: %w", path, err)
	}

	logger.Info("alert store opened", "backend", "badger", "path", path)
	return &BadgerStore{db: db, logger: logger}, nil
}

// SaveAlert implements Store
func (s *BadgerStore) SaveAlert(_ context.Context, a *types.HospitalAlert) error {
	if err := prepareAlert(a); err != nil {
		return err
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode alert %s: %w", a.ID, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(alertKey(a.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to persist alert %s: %w", a.ID, err)
	}

	s.logger.Info("alert persisted", "id", a.ID, "status", string(a.Status))
	return nil
}

// GetAlert implements Store
func (s *BadgerStore) GetAlert(_ context.Context, id string) (*types.HospitalAlert, error) {
	var a types.HospitalAlert

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(alertKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read alert %s: %w", id, err)
	}

	return &a, nil
}

// PendingAlerts implements Store
func (s *BadgerStore) PendingAlerts(_ context.Context) ([]*types.HospitalAlert, error) {
	pending := make([]*types.HospitalAlert, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(alertKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var a types.HospitalAlert
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &a)
			})
			if err != nil {
				return err
			}
			if a.Status == types.AlertPending {
				alert := a
				pending = append(pending, &alert)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending alerts: %w", err)
	}

	sortAlerts(pending)
	return pending, nil
}

// Decide implements Store
func (s *BadgerStore) Decide(_ context.Context, id string, status types.AlertStatus) (*types.HospitalAlert, error) {
	if err := validDecision(status); err != nil {
		return nil, err
	}

	var a types.HospitalAlert
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(alertKey(id))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		}); err != nil {
			return err
		}

		now := time.Now().UTC()
		a.Status = status
		a.DecidedAt = &now

		data, err := json.Marshal(&a)
		if err != nil {
			return err
		}
		return txn.Set(alertKey(id), data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decide alert %s: %w", id, err)
	}

	s.logger.Info("alert decision persisted", "id", id, "status", string(status))
	return &a, nil
}

// Close implements Store
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func alertKey(id string) []byte {
	return []byte(alertKeyPrefix + id)
}
