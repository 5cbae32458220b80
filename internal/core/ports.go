package core

import (
	"context"
)

// ResponseGenerator defines the interface for the reply generation capability.
type ResponseGenerator interface {
	// GenerateReply produces a candidate reply for the message. feedback
	// carries the previous evaluation's revision notes and is empty on the
	// first iteration.
	GenerateReply(ctx context.Context, msg *InboundMessage, feedback string, iteration int) (*Candidate, error)
}

// ResponseScorer defines the interface for the reply scoring capability.
type ResponseScorer interface {
	// ScoreReply scores a candidate reply against the five quality criteria.
	// The returned report is raw and unvalidated; the orchestrator recomputes
	// the aggregate itself.
	ScoreReply(ctx context.Context, msg *InboundMessage, cand *Candidate) (*ScoreReport, error)
}

// Notifier defines the interface for the human notification sink. Delivery is
// best-effort: callers log and swallow errors, a failed notification never
// changes a processing outcome.
type Notifier interface {
	Notify(ctx context.Context, kind EventKind, payload map[string]any) error
}

// EventJournal defines the interface for the append-only event log.
type EventJournal interface {
	// Append writes one event record. Writes within a run must preserve
	// event order.
	Append(ctx context.Context, rec *EventRecord) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*EventRecord, error)
}
