package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/adapters/journal"
	"github.com/mikey/llm-reply-agent/internal/config"
	"github.com/mikey/llm-reply-agent/internal/core"
)

// JournalFactory creates event journals based on configuration
type JournalFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewJournalFactory creates a new journal factory
func NewJournalFactory(cfg *config.Config, logger *zap.Logger) *JournalFactory {
	return &JournalFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEventJournal creates an event journal based on the configuration
func (f *JournalFactory) CreateEventJournal() (core.EventJournal, error) {
	journalType := f.cfg.GetString("journal.type")

	switch journalType {
	case "memory":
		return journal.NewMemoryJournal(0, f.logger), nil
	case "sqlite":
		sqlitePath := f.cfg.GetString("journal.sqlite_path")
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return journal.NewSQLiteJournal(sqlitePath, f.logger)
	case "mysql":
		mysqlDSN := f.cfg.GetString("journal.mysql_dsn")
		return journal.NewMySQLJournal(mysqlDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported journal type: %s", journalType)
	}
}

// GetRecentLimit returns the default limit for recent-event queries.
func (f *JournalFactory) GetRecentLimit() int {
	return f.cfg.GetInt("journal.recent_limit")
}
