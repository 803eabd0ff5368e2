package alertstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soundprediction/triago/pkg/types"
)

// MemoryStore is an in-process Store. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	alerts map[string]types.HospitalAlert
}

// NewMemoryStore creates an empty in-memory alert store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		alerts: make(map[string]types.HospitalAlert),
	}
}

// SaveAlert implements Store
func (s *MemoryStore) SaveAlert(_ context.Context, a *types.HospitalAlert) error {
	if err := prepareAlert(a); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[a.ID] = *a
	return nil
}

// GetAlert implements Store
func (s *MemoryStore) GetAlert(_ context.Context, id string) (*types.HospitalAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	return &a, nil
}

// PendingAlerts implements Store
func (s *MemoryStore) PendingAlerts(_ context.Context) ([]*types.HospitalAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]*types.HospitalAlert, 0)
	for _, a := range s.alerts {
		if a.Status == types.AlertPending {
			alert := a
			pending = append(pending, &alert)
		}
	}
	sortAlerts(pending)
	return pending, nil
}

// Decide implements Store
func (s *MemoryStore) Decide(_ context.Context, id string, status types.AlertStatus) (*types.HospitalAlert, error) {
	if err := validDecision(status); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}

	now := time.Now().UTC()
	a.Status = status
	a.DecidedAt = &now
	s.alerts[id] = a
	return &a, nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	return nil
}

// prepareAlert fills in the generated fields of a new alert.
func prepareAlert(a *types.HospitalAlert) error {
	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = id.String()
	}
	if a.Status == "" {
		a.Status = types.AlertPending
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}

// sortAlerts orders alerts oldest first, ties broken by id.
func sortAlerts(alerts []*types.HospitalAlert) {
	sort.Slice(alerts, func(i, j int) bool {
		if !alerts[i].CreatedAt.Equal(alerts[j].CreatedAt) {
			return alerts[i].CreatedAt.Before(alerts[j].CreatedAt)
		}
		return alerts[i].ID < alerts[j].ID
	})
}
