package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS inference_log (
	id BIGSERIAL PRIMARY KEY,
	provider TEXT NOT NULL,
	model TEXT NOT NULL,
	operation TEXT NOT NULL,
	prompt_tokens INT NOT NULL DEFAULT 0,
	completion_tokens INT NOT NULL DEFAULT 0,
	total_tokens INT NOT NULL DEFAULT 0,
	latency_ms BIGINT NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresRecorder persists inference entries to Postgres.
type PostgresRecorder struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenPostgres connects to the audit database and ensures the schema exists.
func OpenPostgres(databaseURL string, logger *slog.Logger) (*PostgresRecorder, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure inference_log table: %w", err)
	}

	return &PostgresRecorder{db: db, logger: logger}, nil
}

// Record writes the entry asynchronously so inference calls are never blocked
// on the audit database.
func (r *PostgresRecorder) Record(_ context.Context, entry Entry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := r.db.ExecContext(ctx, `
			INSERT INTO inference_log
				(provider, model, operation, prompt_tokens, completion_tokens,
				 total_tokens, latency_ms, status, error_message)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))`,
			entry.Provider, entry.Model, entry.Operation,
			entry.PromptTokens, entry.CompletionTokens, entry.TotalTokens,
			entry.LatencyMs, entry.Status, entry.ErrorMessage)
		if err != nil {
			r.logger.Error("failed to record inference call", "error", err)
		}
	}()
}

// Recent returns the most recent entries, newest first.
func (r *PostgresRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, provider, model, operation, prompt_tokens, completion_tokens,
		       total_tokens, latency_ms, status, COALESCE(error_message, ''), created_at
		FROM inference_log
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query inference_log: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Provider, &e.Model, &e.Operation,
			&e.PromptTokens, &e.CompletionTokens, &e.TotalTokens,
			&e.LatencyMs, &e.Status, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inference_log row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close releases the database connection.
func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}

var _ Recorder = (*PostgresRecorder)(nil)
var _ Recorder = NopRecorder{}
