// ABOUTME: Aggregate statistics over the prediction log
// ABOUTME: Counts calls and failures and summarizes handler latency

package store

import (
	"context"
	"fmt"
)

// PredictionStats returns aggregated statistics with optional filters.
func (s *SQLiteStore) PredictionStats(ctx context.Context, filter PredictionFilter) (*PredictionStats, error) {
	query := `
		SELECT
			COUNT(*) as call_count,
			COALESCE(SUM(CASE WHEN error IS NOT NULL THEN 1 ELSE 0 END), 0) as error_count,
			COALESCE(AVG(duration_ms), 0) as avg_duration,
			COALESCE(MAX(duration_ms), 0) as max_duration
		FROM predictions
		WHERE 1=1
	`
	args := []any{}

	if filter.App != nil {
		query += " AND app = ?"
		args = append(args, *filter.App)
	}
	if filter.Kind != nil {
		query += " AND kind = ?"
		args = append(args, *filter.Kind)
	}
	if filter.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	if filter.Until != nil {
		query += " AND created_at < ?"
		args = append(args, filter.Until.UTC().Format(timeLayout))
	}

	var stats PredictionStats
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.Count,
		&stats.ErrorCount,
		&stats.AvgDurationMS,
		&stats.MaxDurationMS,
	)
	if err != nil {
		return nil, fmt.Errorf("querying prediction stats: %w", err)
	}

	return &stats, nil
}
