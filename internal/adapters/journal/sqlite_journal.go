package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/core"
)

// SQLiteJournal is a SQLite implementation of the EventJournal interface.
type SQLiteJournal struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteJournal creates a new SQLite journal
func NewSQLiteJournal(dbPath string, logger *zap.Logger) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// A single writer keeps event order stable within a run.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TIMESTAMP NOT NULL,
			correlation_id TEXT NOT NULL,
			event_kind TEXT NOT NULL,
			payload TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_events_correlation ON events(correlation_id)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteJournal{db: db, logger: logger}, nil
}

// Append writes one event record.
func (j *SQLiteJournal) Append(ctx context.Context, rec *core.EventRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO events (timestamp, correlation_id, event_kind, payload)
		VALUES (?, ?, ?, ?)
	`, rec.Timestamp.Format(time.RFC3339Nano), rec.CorrelationID, string(rec.Kind), string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]*core.EventRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT timestamp, correlation_id, event_kind, payload
		FROM events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, j.logger)
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// scanEvents converts queried rows into event records. Rows with a corrupt
// payload are kept with a nil payload rather than dropped.
func scanEvents(rows *sql.Rows, logger *zap.Logger) ([]*core.EventRecord, error) {
	var out []*core.EventRecord
	for rows.Next() {
		var ts, correlationID, kind, payload string
		if err := rows.Scan(&ts, &correlationID, &kind, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}

		timestamp, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			logger.Warn("Failed to parse event timestamp", zap.String("timestamp", ts), zap.Error(err))
		}

		rec := &core.EventRecord{
			Timestamp:     timestamp,
			CorrelationID: correlationID,
			Kind:          core.EventKind(kind),
		}
		if payload != "" {
			if err := json.Unmarshal([]byte(payload), &rec.Payload); err != nil {
				logger.Warn("Failed to unmarshal event payload", zap.Error(err))
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
