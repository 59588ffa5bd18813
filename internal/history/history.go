// Package history persists reorder runs in PostgreSQL.
//
// Every run, successful or not, becomes one row in reorder_runs. The store
// is optional: commands fall back to reorder.NopRecorder when no database
// is configured.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/tsvreorder/internal/config"
	"github.com/JonMunkholm/tsvreorder/internal/reorder"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reorder_runs (
	id           UUID PRIMARY KEY,
	input_file   TEXT NOT NULL,
	output_file  TEXT NOT NULL,
	input_order  TEXT[] NOT NULL,
	output_order TEXT[] NOT NULL,
	key_mode     TEXT NOT NULL,
	row_count    INTEGER NOT NULL,
	status       TEXT NOT NULL,
	error_code   TEXT,
	error        TEXT,
	started_at   TIMESTAMPTZ NOT NULL,
	duration_ms  BIGINT NOT NULL
)`

const insertRunSQL = `
INSERT INTO reorder_runs (
	id, input_file, output_file, input_order, output_order, key_mode,
	row_count, status, error_code, error, started_at, duration_ms
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const listRunsSQL = `
SELECT id, input_file, output_file, input_order, output_order, key_mode,
	row_count, status, COALESCE(error_code, ''), COALESCE(error, ''), started_at, duration_ms
FROM reorder_runs
ORDER BY started_at DESC
LIMIT $1`

// Store records and lists runs. It implements reorder.Recorder.
type Store struct {
	db DBTX
}

// NewStore wraps db.
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

// Connect opens a pool from cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the reorder_runs table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create reorder_runs: %w", err)
	}
	return nil
}

// RecordRun inserts one run.
func (s *Store) RecordRun(ctx context.Context, rec reorder.RunRecord) error {
	id, err := uuid.Parse(rec.RunID)
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", rec.RunID, err)
	}

	tag, err := s.db.Exec(ctx, insertRunSQL,
		id,
		rec.InputFile,
		rec.OutputFile,
		nonNil(rec.InputOrder),
		nonNil(rec.OutputOrder),
		rec.KeyMode,
		rec.Rows,
		string(rec.Status),
		nullable(rec.ErrorCode),
		nullable(rec.Error),
		rec.StartedAt,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("insert run: %d rows affected", tag.RowsAffected())
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]reorder.RunRecord, error) {
	rows, err := s.db.Query(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []reorder.RunRecord
	for rows.Next() {
		var (
			rec        reorder.RunRecord
			id         uuid.UUID
			status     string
			durationMS int64
		)
		if err := rows.Scan(
			&id,
			&rec.InputFile,
			&rec.OutputFile,
			&rec.InputOrder,
			&rec.OutputOrder,
			&rec.KeyMode,
			&rec.Rows,
			&status,
			&rec.ErrorCode,
			&rec.Error,
			&rec.StartedAt,
			&durationMS,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.RunID = id.String()
		rec.Status = reorder.RunStatus(status)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// nullable maps "" to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
