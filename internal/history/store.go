package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"github.com/nDmitry/podfeed/internal/entity"
	"github.com/nDmitry/podfeed/migrations"
)

// Fixed-width so that created_at sorts lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DefaultLimit is used by List when limit is not positive.
const DefaultLimit = 20

// Store keeps the history of feed builds in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path required")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &entity.IOError{Op: "create history directory", Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("could not open history database: %w", err)
	}

	// A single connection keeps :memory: databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not set WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not set busy timeout: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts run. CreatedAt is set to the current time when zero.
func (s *Store) Record(ctx context.Context, run *entity.Run) error {
	if run == nil {
		return errors.New("run is nil")
	}

	if run.ID == "" {
		return errors.New("run id is required")
	}

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	run.CreatedAt = run.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, channel_id, channel_title, format, target, entries, missing_audio, bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ChannelID, run.ChannelTitle, run.Format, run.Target,
		run.Entries, run.MissingAudio, run.Bytes, run.CreatedAt.Format(timeLayout),
	)

	if err != nil {
		return fmt.Errorf("could not insert run %s: %w", run.ID, err)
	}

	return nil
}

// List returns at most limit runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]entity.Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, channel_id, channel_title, format, target, entries, missing_audio, bytes, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("could not query runs: %w", err)
	}

	defer rows.Close()

	runs := make([]entity.Run, 0, limit)

	for rows.Next() {
		var (
			run       entity.Run
			createdAt string
		)

		if err := rows.Scan(
			&run.ID, &run.ChannelID, &run.ChannelTitle, &run.Format, &run.Target,
			&run.Entries, &run.MissingAudio, &run.Bytes, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("could not scan run: %w", err)
		}

		run.CreatedAt, err = time.Parse(timeLayout, createdAt)

		if err != nil {
			return nil, fmt.Errorf("could not parse created_at of run %s: %w", run.ID, err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate runs: %w", err)
	}

	return runs, nil
}
