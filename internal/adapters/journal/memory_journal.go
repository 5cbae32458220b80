package journal

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/core"
)

// MemoryJournal is an in-memory implementation of the EventJournal interface.
// A single mutex serializes writes, preserving event order within a run.
type MemoryJournal struct {
	mu      sync.RWMutex
	records []*core.EventRecord
	maxSize int
	logger  *zap.Logger
}

// NewMemoryJournal creates a new in-memory journal. maxSize bounds retained
// records; zero or less keeps everything.
func NewMemoryJournal(maxSize int, logger *zap.Logger) *MemoryJournal {
	return &MemoryJournal{
		maxSize: maxSize,
		logger:  logger,
	}
}

// Append writes one event record.
func (j *MemoryJournal) Append(_ context.Context, rec *core.EventRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.records = append(j.records, rec)
	if j.maxSize > 0 && len(j.records) > j.maxSize {
		// Drop the oldest records beyond the retention bound.
		j.records = j.records[len(j.records)-j.maxSize:]
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (j *MemoryJournal) Recent(_ context.Context, limit int) ([]*core.EventRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 || limit > len(j.records) {
		limit = len(j.records)
	}
	out := make([]*core.EventRecord, 0, limit)
	for i := len(j.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.records[i])
	}
	return out, nil
}
