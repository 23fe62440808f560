// Package history records evaluation runs in SQLite so that label-map drift
// between runs of the same model can be detected.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one stored evaluation.
type Run struct {
	ID               string
	CreatedAt        time.Time
	ModelPath        string
	LabelFingerprint string
	NumClasses       int
	Samples          int
	Accuracy         float64
	MacroF1          float64
	WeightedF1       float64
}

// Store persists runs. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

var schema = []string{`
CREATE TABLE IF NOT EXISTS runs(
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	model_path TEXT NOT NULL,
	label_fingerprint TEXT NOT NULL,
	num_classes INTEGER NOT NULL,
	samples INTEGER NOT NULL,
	accuracy REAL NOT NULL,
	macro_f1 REAL NOT NULL,
	weighted_f1 REAL NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS runs_model_created ON runs(model_path, created_at)`,
}

// Open opens (or creates) the database at path. Use ":memory:" for a
// throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores r, assigning an ID and timestamp when they are empty, and
// returns the stored run.
func (s *Store) Record(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs(
		id, created_at, model_path, label_fingerprint, num_classes, samples, accuracy, macro_f1, weighted_f1)
		VALUES(?,?,?,?,?,?,?,?,?)`,
		r.ID, r.CreatedAt.UnixNano(), r.ModelPath, r.LabelFingerprint, r.NumClasses,
		r.Samples, r.Accuracy, r.MacroF1, r.WeightedF1)
	if err != nil {
		return Run{}, fmt.Errorf("history: insert run: %w", err)
	}
	return r, nil
}

// Latest returns the most recent run for modelPath.
func (s *Store) Latest(ctx context.Context, modelPath string) (Run, bool, error) {
	runs, err := s.List(ctx, modelPath, 1)
	if err != nil || len(runs) == 0 {
		return Run{}, false, err
	}
	return runs[0], true, nil
}

// List returns up to limit runs for modelPath, newest first. An empty
// modelPath lists runs for every model.
func (s *Store) List(ctx context.Context, modelPath string, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, created_at, model_path, label_fingerprint, num_classes, samples, accuracy, macro_f1, weighted_f1
		FROM runs WHERE (? = '' OR model_path = ?) ORDER BY created_at DESC LIMIT ?`,
		modelPath, modelPath, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &created, &r.ModelPath, &r.LabelFingerprint, &r.NumClasses,
			&r.Samples, &r.Accuracy, &r.MacroF1, &r.WeightedF1); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.CreatedAt = time.Unix(0, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ErrLabelDrift means a model was evaluated with a label ordering different
// from its previous run.
var ErrLabelDrift = errors.New("label map changed since previous run")

// CheckDrift compares fingerprint with the latest run for modelPath. It
// returns an error wrapping ErrLabelDrift when they differ, and nil when they
// match or no previous run exists.
func (s *Store) CheckDrift(ctx context.Context, modelPath, fingerprint string) error {
	prev, ok, err := s.Latest(ctx, modelPath)
	if err != nil {
		return err
	}
	if ok && prev.LabelFingerprint != fingerprint {
		return fmt.Errorf("history: %w: run %s used %.12s, now %.12s",
			ErrLabelDrift, prev.ID, prev.LabelFingerprint, fingerprint)
	}
	return nil
}
