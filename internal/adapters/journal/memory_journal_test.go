package journal

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/core"
)

func record(kind core.EventKind, correlationID string) *core.EventRecord {
	return &core.EventRecord{
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Kind:          kind,
		Payload:       map[string]any{"sender": "r@example.com"},
	}
}

func TestMemoryJournalRecentNewestFirst(t *testing.T) {
	j := NewMemoryJournal(0, zap.NewNop())
	ctx := context.Background()

	kinds := []core.EventKind{core.EventMessageReceived, core.EventEvaluationFailed, core.EventResponseApproved}
	for _, k := range kinds {
		if err := j.Append(ctx, record(k, "c-1")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	recs, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Kind != core.EventResponseApproved || recs[1].Kind != core.EventEvaluationFailed {
		t.Errorf("order = %s, %s; want newest first", recs[0].Kind, recs[1].Kind)
	}
}

func TestMemoryJournalZeroLimitReturnsAll(t *testing.T) {
	j := NewMemoryJournal(0, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := j.Append(ctx, record(core.EventMessageReceived, "c-1")); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := j.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 5 {
		t.Errorf("len = %d, want 5", len(recs))
	}
}

func TestMemoryJournalRetentionBound(t *testing.T) {
	j := NewMemoryJournal(3, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := j.Append(ctx, record(core.EventMessageReceived, "c-1")); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := j.Recent(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Errorf("len = %d, want retention bound of 3", len(recs))
	}
}
