// Package history persists benchmark results in a local sqlite
// database so runs on the same hardware can be compared over time.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// A Run is one stored benchmark measurement.
type Run struct {
	ID      int64
	RunAt   time.Time
	Device  string
	Config  string
	Markers int
	TimeMS  float64
	FPS     float64
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS bench_run (
	id      INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	run_at  INTEGER NOT NULL,
	device  TEXT NOT NULL,
	config  TEXT NOT NULL,
	markers INTEGER NOT NULL,
	time_ms REAL NOT NULL,
	fps     REAL NOT NULL
);`

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores a run and returns its assigned id. A zero RunAt is
// replaced with the current time.
func (s *Store) Add(run Run) (int64, error) {
	at := run.RunAt
	if at.IsZero() {
		at = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO bench_run (run_at, device, config, markers, time_ms, fps) VALUES (?, ?, ?, ?, ?, ?)`,
		at.Unix(), run.Device, run.Config, run.Markers, run.TimeMS, run.FPS,
	)
	if err != nil {
		return 0, fmt.Errorf("history: add: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: add: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first. A non-positive
// limit returns all runs.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, run_at, device, config, markers, time_ms, fps FROM bench_run ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var r Run
		var at int64
		if err := rows.Scan(&r.ID, &at, &r.Device, &r.Config, &r.Markers, &r.TimeMS, &r.FPS); err != nil {
			return nil, fmt.Errorf("history: list: %w", err)
		}
		r.RunAt = time.Unix(at, 0)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	return runs, nil
}

// Prune deletes runs recorded before the cutoff and reports how many
// were removed.
func (s *Store) Prune(before time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM bench_run WHERE run_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	return n, nil
}
