package core

import (
	"time"
)

// InboundMessage represents an employer message submitted for automated handling.
// It is immutable once received.
type InboundMessage struct {
	Sender        string
	Body          string
	ReceivedAt    time.Time
	CorrelationID string
}

// Category is the closed set of message categories the generator may report.
type Category string

const (
	CategoryInterviewInvitation Category = "interview_invitation"
	CategoryTechnicalQuestion   Category = "technical_question"
	CategoryOfferDecline        Category = "offer_decline"
	CategoryClarification       Category = "clarification"
	CategoryUnknown             Category = "unknown"
)

// ParseCategory maps a generator-reported label onto the closed category set.
// Anything unrecognised collapses to CategoryUnknown.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryInterviewInvitation, CategoryTechnicalQuestion,
		CategoryOfferDecline, CategoryClarification:
		return Category(s)
	default:
		return CategoryUnknown
	}
}

// Candidate is one generated reply attempt. Attempts are append-only within a
// processing run and immutable after creation.
type Candidate struct {
	Text       string
	Confidence float64
	Category   Category
	Iteration  int
	Feedback   string // evaluator feedback this attempt was conditioned on, empty on the first
}

// RiskReason explains why a message or candidate was flagged.
type RiskReason string

const (
	ReasonLowConfidence  RiskReason = "low_confidence"
	ReasonSensitiveTopic RiskReason = "sensitive_topic"

	// ReasonThresholdNotMet is used for escalations after the revision budget
	// is exhausted, not by the classifier itself.
	ReasonThresholdNotMet RiskReason = "threshold_not_met"
)

// RiskVerdict is the result of a risk classification.
type RiskVerdict struct {
	Risky  bool
	Reason RiskReason
	Detail string
}

// ScoreReport is the raw result returned by a ResponseScorer before the
// orchestrator validates it. ClaimedOverall is whatever total the upstream
// reported; it is never trusted, the aggregate is always recomputed.
type ScoreReport struct {
	Scores         CriterionScores
	Feedback       string
	ClaimedOverall float64
}

// Evaluation is the validated, recomputed assessment of one Candidate.
type Evaluation struct {
	Scores    CriterionScores
	Aggregate float64
	Feedback  string
	Candidate *Candidate
}

// Approved reports whether the evaluation clears the approval threshold.
func (e *Evaluation) Approved(threshold float64) bool {
	return e.Aggregate >= threshold
}

// OutcomeStatus is the terminal status of a processing run.
type OutcomeStatus string

const (
	StatusApproved          OutcomeStatus = "approved"
	StatusHumanIntervention OutcomeStatus = "human_intervention_required"
)

// ProcessingOutcome is the terminal record for one InboundMessage. Exactly one
// outcome exists per message; it is finalized once and never mutated.
type ProcessingOutcome struct {
	CorrelationID             string
	Status                    OutcomeStatus
	Response                  string
	Category                  Category
	Candidate                 *Candidate
	Evaluation                *Evaluation
	Iterations                int
	HumanInterventionRequired bool
	Notifications             []EventKind
	PendingID                 string
}

// EventKind identifies a notification/journal event.
type EventKind string

const (
	EventMessageReceived   EventKind = "message_received"
	EventHumanIntervention EventKind = "human_intervention_needed"
	EventResponseApproved  EventKind = "response_approved"
	EventEvaluationFailed  EventKind = "evaluation_failed"
)

// EventRecord is one append-only journal entry, written in the order events
// occur within a run.
type EventRecord struct {
	Timestamp     time.Time
	CorrelationID string
	Kind          EventKind
	Payload       map[string]any
}
