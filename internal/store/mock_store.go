// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu          sync.RWMutex
	predictions map[string]*Prediction // keyed by prediction ID
	order       []string               // insertion order
	closed      bool
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		predictions: make(map[string]*Prediction),
	}
}

// SavePrediction stores a copy of p.
func (m *MockStore) SavePrediction(ctx context.Context, p *Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	if _, exists := m.predictions[cp.ID]; !exists {
		m.order = append(m.order, cp.ID)
	}
	m.predictions[cp.ID] = &cp
	return nil
}

// GetPrediction retrieves a prediction by ID.
func (m *MockStore) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.predictions[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *p
	return &result, nil
}

// ListPredictions returns the newest predictions first.
func (m *MockStore) ListPredictions(ctx context.Context, app string, limit int) ([]*Prediction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Prediction
	for _, id := range m.order {
		p := m.predictions[id]
		if app != "" && p.App != app {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit = normalizeLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PredictionStats aggregates the stored predictions.
func (m *MockStore) PredictionStats(ctx context.Context, filter PredictionFilter) (*PredictionStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		stats PredictionStats
		total int64
	)
	for _, p := range m.predictions {
		if filter.App != nil && p.App != *filter.App {
			continue
		}
		if filter.Kind != nil && p.Kind != *filter.Kind {
			continue
		}
		if filter.Since != nil && p.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && !p.CreatedAt.Before(*filter.Until) {
			continue
		}
		stats.Count++
		if p.Error != "" {
			stats.ErrorCount++
		}
		total += p.DurationMS
		stats.MaxDurationMS = max(stats.MaxDurationMS, p.DurationMS)
	}
	if stats.Count > 0 {
		stats.AvgDurationMS = float64(total) / float64(stats.Count)
	}
	return &stats, nil
}

// Close marks the store closed.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored predictions.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.predictions)
}

// Ensure MockStore implements Store interface.
var _ Store = (*MockStore)(nil)
