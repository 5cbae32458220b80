package core

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// runState enumerates the states of the evaluation-revision loop.
type runState int

const (
	stateReceived runState = iota
	stateRiskCheckPre
	stateGenerating
	stateRiskCheckPost
	stateScoring
	stateRevising
	stateApproved
	stateEscalated
)

// Params holds the orchestration knobs. Loaded once at process start,
// immutable afterward.
type Params struct {
	ApprovalThreshold float64
	MaxIterations     int
	LLMTimeout        time.Duration
	NotifierTimeout   time.Duration
}

// DefaultParams returns the default orchestration parameters.
func DefaultParams() Params {
	return Params{
		ApprovalThreshold: 0.75,
		MaxIterations:     3,
		LLMTimeout:        10 * time.Second,
		NotifierTimeout:   5 * time.Second,
	}
}

// ReplyAgentService is the core orchestrator. It sequences risk checks,
// generation and scoring into a terminal outcome per inbound message.
type ReplyAgentService struct {
	generator ResponseGenerator
	scorer    ResponseScorer
	notifier  Notifier
	journal   EventJournal
	risk      *RiskClassifier
	pending   *PendingStore
	logger    *zap.Logger
	params    Params
}

// NewReplyAgentService creates a new reply agent service.
func NewReplyAgentService(
	generator ResponseGenerator,
	scorer ResponseScorer,
	notifier Notifier,
	journal EventJournal,
	risk *RiskClassifier,
	pending *PendingStore,
	logger *zap.Logger,
	params Params,
) *ReplyAgentService {
	if params.MaxIterations <= 0 {
		params.MaxIterations = DefaultParams().MaxIterations
	}
	if params.LLMTimeout <= 0 {
		params.LLMTimeout = DefaultParams().LLMTimeout
	}
	if params.NotifierTimeout <= 0 {
		params.NotifierTimeout = DefaultParams().NotifierTimeout
	}
	return &ReplyAgentService{
		generator: generator,
		scorer:    scorer,
		notifier:  notifier,
		journal:   journal,
		risk:      risk,
		pending:   pending,
		logger:    logger,
		params:    params,
	}
}

// run carries the mutable state of one pass through the state machine.
type run struct {
	msg           *InboundMessage
	iteration     int
	candidate     *Candidate
	evaluation    *Evaluation
	feedback      []string
	failure       error
	escalation    RiskVerdict
	escalationVia EventKind
	notifications []EventKind
}

// Submit runs one inbound message through the full loop and returns its
// terminal outcome. The caller always gets a definitive status; every
// unrecoverable condition inside the loop escalates to human review.
func (s *ReplyAgentService) Submit(ctx context.Context, sender, body string) (*ProcessingOutcome, error) {
	msg := &InboundMessage{
		Sender:        sender,
		Body:          body,
		ReceivedAt:    time.Now().UTC(),
		CorrelationID: uuid.NewString(),
	}
	return s.Process(ctx, msg)
}

// Process drives a pre-built message through the state machine. Ingress
// adapters that construct their own InboundMessage (e.g. SMTP) call this
// directly.
func (s *ReplyAgentService) Process(ctx context.Context, msg *InboundMessage) (*ProcessingOutcome, error) {
	if strings.TrimSpace(msg.Sender) == "" || strings.TrimSpace(msg.Body) == "" {
		return nil, ErrInvalidInput
	}
	if msg.CorrelationID == "" {
		msg.CorrelationID = uuid.NewString()
	}
	r := &run{msg: msg}
	state := stateReceived

	for {
		switch state {
		case stateReceived:
			s.emit(ctx, r, EventMessageReceived, map[string]any{
				"sender":  msg.Sender,
				"message": preview(msg.Body, 120),
			})
			state = stateRiskCheckPre

		case stateRiskCheckPre:
			if v := s.risk.Classify(msg.Body); v.Risky {
				r.escalation = v
				r.escalationVia = EventHumanIntervention
				state = stateEscalated
			} else {
				state = stateGenerating
			}

		case stateGenerating:
			r.iteration++
			cand, err := s.generate(ctx, r)
			if err != nil {
				s.logger.Error("Generation failed, consuming iteration",
					zap.Int("iteration", r.iteration),
					zap.Error(err))
				r.failure = fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
				state = stateScoring
				break
			}
			r.candidate = cand
			state = stateRiskCheckPost

		case stateRiskCheckPost:
			v := s.risk.ClassifyCandidate(r.candidate.Text, r.candidate.Confidence)
			if v.Risky {
				r.escalation = v
				r.escalationVia = EventHumanIntervention
				state = stateEscalated
			} else {
				state = stateScoring
			}

		case stateScoring:
			eval := s.score(ctx, r)
			r.evaluation = eval
			s.logger.Info("Candidate scored",
				zap.String("correlation_id", msg.CorrelationID),
				zap.Int("iteration", r.iteration),
				zap.Int("max_iterations", s.params.MaxIterations),
				zap.Float64("aggregate", eval.Aggregate),
				zap.Float64("threshold", s.params.ApprovalThreshold))

			switch {
			case eval.Approved(s.params.ApprovalThreshold):
				state = stateApproved
			case r.iteration < s.params.MaxIterations:
				state = stateRevising
			default:
				r.escalation = RiskVerdict{
					Risky:  true,
					Reason: ReasonThresholdNotMet,
					Detail: fmt.Sprintf("no candidate reached threshold %.2f after %d iterations", s.params.ApprovalThreshold, r.iteration),
				}
				r.escalationVia = EventEvaluationFailed
				state = stateEscalated
			}

		case stateRevising:
			r.feedback = append(r.feedback, r.evaluation.Feedback)
			r.failure = nil
			state = stateGenerating

		case stateApproved:
			return s.finishApproved(ctx, r), nil

		case stateEscalated:
			return s.finishEscalated(ctx, r), nil
		}
	}
}

// generate invokes the generator under the configured timeout.
func (s *ReplyAgentService) generate(ctx context.Context, r *run) (*Candidate, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.params.LLMTimeout)
	defer cancel()

	cand, err := s.generator.GenerateReply(callCtx, r.msg, strings.Join(r.feedback, "\n"), r.iteration)
	if err != nil {
		return nil, err
	}
	cand.Iteration = r.iteration
	cand.Feedback = strings.Join(r.feedback, "\n")
	return cand, nil
}

// score invokes the scorer and validates its report. Any failure, including a
// malformed report, becomes a synthetic below-threshold evaluation so the
// iteration is consumed rather than retried silently.
func (s *ReplyAgentService) score(ctx context.Context, r *run) *Evaluation {
	if r.failure == nil {
		callCtx, cancel := context.WithTimeout(ctx, s.params.LLMTimeout)
		report, err := s.scorer.ScoreReply(callCtx, r.msg, r.candidate)
		cancel()
		if err != nil {
			s.logger.Error("Scoring failed, consuming iteration",
				zap.Int("iteration", r.iteration),
				zap.Error(err))
			r.failure = fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		} else {
			eval, err := BuildEvaluation(report, r.candidate)
			if err != nil {
				s.logger.Error("Scorer returned malformed evaluation",
					zap.Int("iteration", r.iteration),
					zap.Error(err))
				r.failure = err
			} else {
				return eval
			}
		}
	}

	return &Evaluation{
		Aggregate: 0,
		Feedback:  fmt.Sprintf("automatic below-threshold result: %v", r.failure),
		Candidate: r.candidate,
	}
}

// finishApproved emits the approval side effects and finalizes the outcome.
func (s *ReplyAgentService) finishApproved(ctx context.Context, r *run) *ProcessingOutcome {
	s.emit(ctx, r, EventResponseApproved, map[string]any{
		"sender":     r.msg.Sender,
		"category":   string(r.candidate.Category),
		"score":      r.evaluation.Aggregate,
		"iterations": r.iteration,
		"response":   preview(r.candidate.Text, 200),
	})
	return &ProcessingOutcome{
		CorrelationID: r.msg.CorrelationID,
		Status:        StatusApproved,
		Response:      r.candidate.Text,
		Category:      r.candidate.Category,
		Candidate:     r.candidate,
		Evaluation:    r.evaluation,
		Iterations:    r.iteration,
		Notifications: r.notifications,
	}
}

// finishEscalated emits the escalation side effects, queues the message for a
// human and finalizes the outcome.
func (s *ReplyAgentService) finishEscalated(ctx context.Context, r *run) *ProcessingOutcome {
	payload := map[string]any{
		"sender":  r.msg.Sender,
		"message": preview(r.msg.Body, 120),
		"reason":  string(r.escalation.Reason),
		"detail":  r.escalation.Detail,
	}
	if r.escalationVia == EventEvaluationFailed && r.evaluation != nil {
		payload["score"] = r.evaluation.Aggregate
		payload["threshold"] = s.params.ApprovalThreshold
		payload["iterations"] = r.iteration
		payload["feedback"] = r.evaluation.Feedback
	}
	s.emit(ctx, r, r.escalationVia, payload)

	var pendingID string
	if s.pending != nil {
		pendingID = s.pending.Add(r.msg, r.escalation)
	}

	category := CategoryUnknown
	if r.candidate != nil {
		category = r.candidate.Category
	}
	return &ProcessingOutcome{
		CorrelationID:             r.msg.CorrelationID,
		Status:                    StatusHumanIntervention,
		Category:                  category,
		Candidate:                 r.candidate,
		Evaluation:                r.evaluation,
		Iterations:                r.iteration,
		HumanInterventionRequired: true,
		Notifications:             r.notifications,
		PendingID:                 pendingID,
	}
}

// emit sends a notification and journals the event. Both are best-effort:
// failures are logged and never change the outcome or block the machine.
func (s *ReplyAgentService) emit(ctx context.Context, r *run, kind EventKind, payload map[string]any) {
	notifyCtx, cancel := context.WithTimeout(ctx, s.params.NotifierTimeout)
	defer cancel()

	if err := s.notifier.Notify(notifyCtx, kind, payload); err != nil {
		s.logger.Error("Notification failed",
			zap.String("kind", string(kind)),
			zap.String("correlation_id", r.msg.CorrelationID),
			zap.Error(err))
	}
	r.notifications = append(r.notifications, kind)

	rec := &EventRecord{
		Timestamp:     time.Now().UTC(),
		CorrelationID: r.msg.CorrelationID,
		Kind:          kind,
		Payload:       payload,
	}
	if err := s.journal.Append(ctx, rec); err != nil {
		s.logger.Error("Failed to journal event",
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}

// RecentEvents returns the most recent journaled events, newest first.
func (s *ReplyAgentService) RecentEvents(ctx context.Context, limit int) ([]*EventRecord, error) {
	return s.journal.Recent(ctx, limit)
}

// preview truncates text for notification payloads and journal entries
// without splitting a UTF-8 sequence.
func preview(text string, max int) string {
	if len(text) <= max {
		return text
	}
	truncated := text[:max]
	for len(truncated) > 0 && !utf8.ValidString(truncated) {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "..."
}
