// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides prediction persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS predictions (
			id           TEXT PRIMARY KEY,
			app          TEXT NOT NULL,
			kind         TEXT NOT NULL,
			request_id   TEXT,
			inputs_json  TEXT NOT NULL,
			outputs_json TEXT,
			error        TEXT,
			duration_ms  INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT NOT NULL,

			CHECK (kind IN ('predict', 'chat'))
		);

		CREATE INDEX IF NOT EXISTS idx_predictions_app_created
			ON predictions(app, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_predictions_created
			ON predictions(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// SavePrediction inserts a prediction record.
func (s *SQLiteStore) SavePrediction(ctx context.Context, p *Prediction) error {
	query := `
		INSERT INTO predictions (
			id, app, kind, request_id, inputs_json, outputs_json, error, duration_ms, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.App,
		p.Kind,
		nullString(p.RequestID),
		p.InputsJSON,
		nullString(p.OutputsJSON),
		nullString(p.Error),
		p.DurationMS,
		p.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting prediction: %w", err)
	}

	s.logger.Debug("saved prediction",
		"id", p.ID,
		"app", p.App,
		"kind", p.Kind,
		"duration_ms", p.DurationMS,
	)
	return nil
}

// nullString converts an empty string to nil for nullable columns
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

const predictionColumns = `id, app, kind, request_id, inputs_json, outputs_json, error, duration_ms, created_at`

// GetPrediction retrieves a prediction by ID.
func (s *SQLiteStore) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = ?`

	p, err := scanPrediction(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPredictions returns the newest predictions first.
func (s *SQLiteStore) ListPredictions(ctx context.Context, app string, limit int) ([]*Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions`
	args := []any{}
	if app != "" {
		query += ` WHERE app = ?`
		args = append(args, app)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, normalizeLimit(limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prediction rows: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPrediction scans a single prediction row.
func scanPrediction(row rowScanner) (*Prediction, error) {
	var (
		p            Prediction
		requestID    sql.NullString
		outputsJSON  sql.NullString
		errText      sql.NullString
		createdAtStr string
	)

	err := row.Scan(
		&p.ID,
		&p.App,
		&p.Kind,
		&requestID,
		&p.InputsJSON,
		&outputsJSON,
		&errText,
		&p.DurationMS,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning prediction row: %w", err)
	}

	p.RequestID = requestID.String
	p.OutputsJSON = outputsJSON.String
	p.Error = errText.String

	p.CreatedAt, err = time.Parse(timeLayout, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &p, nil
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)
