package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"event-calendar/pkg/resources"
)

const createCalendarStateTable = `CREATE TABLE IF NOT EXISTS calendar_state (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresPersistence struct {
	tracer  trace.Tracer
	metrics *DBMetrics
	pool    resources.DBInstance
	key     string
}

func NewPostgresPersistence(pool resources.DBInstance, key string) *PostgresPersistence {
	if key == "" {
		key = DefaultStorageKey
	}

	return &PostgresPersistence{
		tracer:  otel.GetTracerProvider().Tracer("event-calendar/core"),
		metrics: NewDBMetrics("postgres"),
		pool:    pool,
		key:     key,
	}
}

func (r *PostgresPersistence) EnsureSchema(ctx context.Context) error {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "ensure_schema", start, err) }()

	ctx, span := r.tracer.Start(ctx, "postgres.EnsureSchema")
	defer span.End()

	_, err = r.pool.Exec(ctx, createCalendarStateTable)
	if err != nil {
		return fmt.Errorf("failed to create calendar_state table: %w", err)
	}

	return nil
}

func (r *PostgresPersistence) Load(ctx context.Context) ([]byte, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "load_events", start, err) }()

	ctx, span := r.tracer.Start(ctx, "postgres.Load")
	defer span.End()

	var payload string

	err = r.pool.QueryRow(ctx,
		`SELECT payload
		 FROM calendar_state
		 WHERE key = $1`,
		r.key,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			return nil, nil
		}

		return nil, fmt.Errorf("failed to load calendar state: %w", err)
	}

	return []byte(payload), nil
}

func (r *PostgresPersistence) Save(ctx context.Context, blob []byte) error {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "save_events", start, err) }()

	ctx, span := r.tracer.Start(ctx, "postgres.Save")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO calendar_state (key, payload, updated_at) "+
			"VALUES ($1, $2, now()) "+
			"ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at",
		r.key, string(blob))
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to upsert calendar state: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close is a no-op: the pool is owned and closed by main.
func (r *PostgresPersistence) Close() {}

/*
 * metrics
 */

type DBMetrics struct {
	system   string
	qTotal   metric.Int64Counter
	qErrors  metric.Int64Counter
	qLatency metric.Float64Histogram
}

func NewDBMetrics(system string) *DBMetrics {
	meter := otel.Meter("event-calendar/db")

	qTotal, _ := meter.Int64Counter("db.query.total")
	qErrors, _ := meter.Int64Counter("db.query.errors.total")
	qLatency, _ := meter.Float64Histogram("db.query.duration.ms")

	return &DBMetrics{system: system, qTotal: qTotal, qErrors: qErrors, qLatency: qLatency}
}

func (m *DBMetrics) Observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", m.system),
		attribute.String("db.operation", op), // ej: "load_events", "save_events"
	}

	m.qTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	ms := float64(time.Since(start).Milliseconds())
	m.qLatency.Record(ctx, ms, metric.WithAttributes(attrs...))

	if err != nil {
		m.qErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
