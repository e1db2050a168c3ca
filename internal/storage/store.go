// Package storage keeps finished runs on disk: a SQLite catalog of run
// metadata plus one CSV file of trajectory rows per run.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/sim"
)

var ErrNotFound = errors.New("storage: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	system      TEXT NOT NULL,
	integrator  TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	start       REAL NOT NULL,
	days        REAL NOT NULL,
	step        REAL NOT NULL,
	samples     INTEGER NOT NULL,
	names       TEXT NOT NULL,
	masses      TEXT NOT NULL,
	metrics     TEXT NOT NULL,
	elapsed_ms  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at);
`

type Store struct {
	baseDir string
	db      *sql.DB
}

type RunMetadata struct {
	ID         string             `json:"id"`
	System     string             `json:"system"`
	Integrator string             `json:"integrator"`
	Timestamp  time.Time          `json:"timestamp"`
	Start      float64            `json:"start"`
	Days       float64            `json:"days"`
	Step       float64            `json:"step"`
	Samples    int                `json:"samples"`
	Bodies     []string           `json:"bodies"`
	Masses     []float64          `json:"masses"`
	Metrics    map[string]float64 `json:"metrics"`
	Elapsed    time.Duration      `json:"elapsed"`
}

// Open creates baseDir if needed and opens the catalog inside it.
func Open(baseDir string) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	dsn := filepath.Join(filepath.Clean(baseDir), "runs.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{baseDir: baseDir, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save records the run and writes its trajectory rows. The catalog row is
// inserted in a transaction that only commits once states.csv is fully on
// disk, so a failed Save leaves neither a row nor files behind and never
// touches an existing run. meta.ID and meta.Timestamp are filled in when
// empty.
func (s *Store) Save(ctx context.Context, meta RunMetadata, result *sim.Result) (string, error) {
	if result == nil || len(result.Trajectory) == 0 {
		return "", fmt.Errorf("nothing to save")
	}
	if len(meta.Bodies) != len(meta.Masses) {
		return "", fmt.Errorf("%d names for %d masses", len(meta.Bodies), len(meta.Masses))
	}

	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%s_%d", meta.System, meta.Integrator, meta.Timestamp.UnixNano())
	}
	if meta.ID == "." || meta.ID == ".." || filepath.Base(meta.ID) != meta.ID {
		return "", fmt.Errorf("invalid run id %q", meta.ID)
	}
	meta.Samples = len(result.Trajectory)
	meta.Elapsed = result.Elapsed
	if meta.Metrics == nil {
		meta.Metrics = result.Metrics
	}

	names, err := json.Marshal(meta.Bodies)
	if err != nil {
		return "", err
	}
	masses, err := json.Marshal(meta.Masses)
	if err != nil {
		return "", err
	}
	metrics, err := json.Marshal(meta.Metrics)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, system, integrator, created_at, start, days, step, samples, names, masses, metrics, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.System, meta.Integrator, meta.Timestamp.UTC().UnixMilli(),
		meta.Start, meta.Days, meta.Step, meta.Samples,
		string(names), string(masses), string(metrics), meta.Elapsed.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := writeStates(runDir, meta.Bodies, result); err != nil {
		_ = os.RemoveAll(runDir)
		return "", err
	}

	if err := tx.Commit(); err != nil {
		_ = os.RemoveAll(runDir)
		return "", fmt.Errorf("commit run: %w", err)
	}

	return meta.ID, nil
}

// writeStates writes states.csv through a temporary file so the final name
// only ever holds complete data.
func writeStates(runDir string, names []string, result *sim.Result) error {
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	final := filepath.Join(runDir, "states.csv")
	tmp := final + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(f, names, result.Times, result.Trajectory); err != nil {
		_ = f.Close()
		return fmt.Errorf("write states: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, final)
}

const selectRun = `SELECT id, system, integrator, created_at, start, days, step, samples, names, masses, metrics, elapsed_ms FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunMetadata, error) {
	var (
		meta                   RunMetadata
		created, elapsed       int64
		names, masses, metrics string
	)
	err := row.Scan(&meta.ID, &meta.System, &meta.Integrator, &created,
		&meta.Start, &meta.Days, &meta.Step, &meta.Samples,
		&names, &masses, &metrics, &elapsed)
	if err != nil {
		return meta, err
	}
	meta.Timestamp = time.UnixMilli(created).UTC()
	meta.Elapsed = time.Duration(elapsed) * time.Millisecond
	if err := json.Unmarshal([]byte(names), &meta.Bodies); err != nil {
		return meta, fmt.Errorf("decode names: %w", err)
	}
	if err := json.Unmarshal([]byte(masses), &meta.Masses); err != nil {
		return meta, fmt.Errorf("decode masses: %w", err)
	}
	if err := json.Unmarshal([]byte(metrics), &meta.Metrics); err != nil {
		return meta, fmt.Errorf("decode metrics: %w", err)
	}
	return meta, nil
}

// List returns every run, oldest first.
func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	rows, err := s.db.QueryContext(ctx, selectRun+` ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (s *Store) Load(ctx context.Context, runID string) (*RunMetadata, error) {
	meta, err := scanRun(s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads back the rows saved for runID.
func (s *Store) LoadTrajectory(ctx context.Context, runID string) (dynamo.TimeGrid, dynamo.Trajectory, error) {
	if _, err := s.Load(ctx, runID); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	_, times, traj, err := export.ReadCSV(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read states: %w", err)
	}
	return times, traj, nil
}

// Delete removes the catalog entry and the run's files.
func (s *Store) Delete(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
