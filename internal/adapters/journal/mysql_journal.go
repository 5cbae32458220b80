package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/core"
)

// MySQLJournal is a MySQL implementation of the EventJournal interface.
type MySQLJournal struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLJournal creates a new MySQL journal
func NewMySQLJournal(dsn string, logger *zap.Logger) (*MySQLJournal, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			timestamp VARCHAR(64) NOT NULL,
			correlation_id VARCHAR(64) NOT NULL,
			event_kind VARCHAR(64) NOT NULL,
			payload TEXT,
			INDEX idx_events_correlation (correlation_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}

	return &MySQLJournal{db: db, logger: logger}, nil
}

// Append writes one event record.
func (j *MySQLJournal) Append(ctx context.Context, rec *core.EventRecord) error {
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
func (j *MySQLJournal) Recent(ctx context.Context, limit int) ([]*core.EventRecord, error) {
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
func (j *MySQLJournal) Close() error {
	return j.db.Close()
}
