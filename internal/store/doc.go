// Package store persists the chailab prediction log using SQLite.
//
// # Overview
//
// Every call through /api/predict or /api/chat can be recorded as a
// Prediction: the app name, the kind (predict or chat), the request and
// response values as JSON, the handler error if any, and the duration.
// The log is optional and disabled when no database path is configured.
//
// # Implementations
//
//   - SQLiteStore: modernc.org/sqlite with WAL mode; schema created on open
//   - MockStore: in-memory, for tests
//
// # Usage
//
//	s, err := store.NewSQLiteStore("data/chailab.db")
//	if err != nil { ... }
//	defer s.Close()
//	recent, err := s.ListPredictions(ctx, "greet", 20)
package store
