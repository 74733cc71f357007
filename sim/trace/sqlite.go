package trace

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteSink persists records to an events table, one row per record,
// keyed by run id so several runs can share a database file.
type SQLiteSink struct {
	db    *sql.DB
	runID string
	path  string
}

// OpenSQLiteSink opens (or creates) the database at path.
func OpenSQLiteSink(path, runID string) (*SQLiteSink, error) {
	if path == "" {
		return nil, errors.New("sqlite event store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS events (
		run_id     TEXT    NOT NULL,
		seq        INTEGER NOT NULL,
		actor      TEXT    NOT NULL,
		action     TEXT    NOT NULL,
		unresolved INTEGER,
		registered INTEGER,
		occupancy  INTEGER,
		PRIMARY KEY (run_id, seq)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create events table: %w", err)
	}
	return &SQLiteSink{db: db, runID: runID, path: path}, nil
}

// Write inserts a record. Stats columns are NULL for records without stats.
func (s *SQLiteSink) Write(record Record) error {
	var unresolved, registered, occupancy sql.NullInt64
	if record.Stats != nil {
		unresolved = sql.NullInt64{Int64: record.Stats.Unresolved, Valid: true}
		registered = sql.NullInt64{Int64: record.Stats.Registered, Valid: true}
		occupancy = sql.NullInt64{Int64: record.Stats.Occupancy, Valid: true}
	}
	if _, err := s.db.Exec(
		`INSERT INTO events (run_id, seq, actor, action, unresolved, registered, occupancy) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.runID, int64(record.Seq), record.Actor, record.Action, unresolved, registered, occupancy,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Load reads back every record of the sink's run, ordered by sequence.
func (s *SQLiteSink) Load() ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT seq, actor, action, unresolved, registered, occupancy FROM events WHERE run_id = ? ORDER BY seq`,
		s.runID,
	)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var (
			seq                               int64
			r                                 Record
			unresolved, registered, occupancy sql.NullInt64
		)
		if err := rows.Scan(&seq, &r.Actor, &r.Action, &unresolved, &registered, &occupancy); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r.Seq = uint64(seq)
		if unresolved.Valid {
			r.Stats = &Stats{Unresolved: unresolved.Int64, Registered: registered.Int64, Occupancy: occupancy.Int64}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
