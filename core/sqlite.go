package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"
)

type SQLitePersistence struct {
	tracer  trace.Tracer
	metrics *DBMetrics
	db      *sql.DB
	key     string
}

// OpenSQLitePersistence opens (creating if needed) the database file at path
// and makes sure the calendar_state table exists.
func OpenSQLitePersistence(ctx context.Context, path string, key string) (*SQLitePersistence, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	persistence := NewSQLitePersistence(db, key)

	err = persistence.EnsureSchema(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return persistence, nil
}

func NewSQLitePersistence(db *sql.DB, key string) *SQLitePersistence {
	if key == "" {
		key = DefaultStorageKey
	}

	return &SQLitePersistence{
		tracer:  otel.GetTracerProvider().Tracer("event-calendar/core"),
		metrics: NewDBMetrics("sqlite"),
		db:      db,
		key:     key,
	}
}

func (s *SQLitePersistence) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS calendar_state (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("failed to create calendar_state table: %w", err)
	}

	return nil
}

func (s *SQLitePersistence) Load(ctx context.Context) ([]byte, error) {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "load_events", start, err) }()

	ctx, span := s.tracer.Start(ctx, "sqlite.Load")
	defer span.End()

	var payload string

	err = s.db.QueryRowContext(ctx, `SELECT payload FROM calendar_state WHERE key = ?`, s.key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			return nil, nil
		}

		return nil, fmt.Errorf("failed to load calendar state: %w", err)
	}

	return []byte(payload), nil
}

func (s *SQLitePersistence) Save(ctx context.Context, blob []byte) error {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "save_events", start, err) }()

	ctx, span := s.tracer.Start(ctx, "sqlite.Save")
	defer span.End()

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO calendar_state (key, payload, updated_at) VALUES (?, ?, ?)`,
		s.key, string(blob), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save calendar state: %w", err)
	}

	return nil
}

func (s *SQLitePersistence) Close() {
	err := s.db.Close()
	if err != nil {
		log.Error().Err(err).Str("component", "sqlite").Msg("failed to close database")
	}
}
