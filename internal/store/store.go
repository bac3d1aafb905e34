// ABOUTME: Store interface and data types for the prediction log
// ABOUTME: Records one row per /api/predict or /api/chat call

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Prediction kinds
const (
	KindPredict = "predict" // form interface call
	KindChat    = "chat"    // chat interface call
)

// Prediction is one logged call of a wrapped function.
type Prediction struct {
	ID          string    `json:"id"`
	App         string    `json:"app"`
	Kind        string    `json:"kind"`
	RequestID   string    `json:"request_id,omitempty"`
	InputsJSON  string    `json:"inputs"`
	OutputsJSON string    `json:"outputs,omitempty"`
	Error       string    `json:"error,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// PredictionFilter narrows PredictionStats. Nil fields are ignored.
type PredictionFilter struct {
	App   *string
	Kind  *string
	Since *time.Time
	Until *time.Time
}

// PredictionStats aggregates logged calls.
type PredictionStats struct {
	Count         int64   `json:"count"`
	ErrorCount    int64   `json:"error_count"`
	AvgDurationMS float64 `json:"avg_duration_ms"`
	MaxDurationMS int64   `json:"max_duration_ms"`
}

// Store persists predictions.
type Store interface {
	SavePrediction(ctx context.Context, p *Prediction) error
	GetPrediction(ctx context.Context, id string) (*Prediction, error)
	// ListPredictions returns the newest predictions for app first.
	// An empty app lists every app; limit <= 0 uses a default of 50.
	ListPredictions(ctx context.Context, app string, limit int) ([]*Prediction, error)
	PredictionStats(ctx context.Context, filter PredictionFilter) (*PredictionStats, error)
	Close() error
}

// DefaultListLimit is used when ListPredictions is given no limit.
const DefaultListLimit = 50

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
