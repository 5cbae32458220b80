package core

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Scenario is a canned regression input: a fixed message plus scripted
// generator/scorer behavior and the expected terminal outcome.
type Scenario struct {
	ID          string
	Description string
	Sender      string
	Message     string

	// Scripted upstream behavior, one entry per iteration. The last entry
	// repeats if the loop runs longer.
	Confidences []float64
	Scores      []float64

	ExpectStatus     OutcomeStatus
	ExpectIterations int
	ExpectHuman      bool
	ExpectEvent      EventKind
}

// Canned scenarios used by the self-test surface.
var scenarios = []Scenario{
	{
		ID:               "interview-approved-first-pass",
		Description:      "clean interview invitation approved on the first iteration",
		Sender:           "recruiter@example.com",
		Message:          "We'd like to invite you for a technical interview next Tuesday at 10 AM. Are you available?",
		Confidences:      []float64{0.9},
		Scores:           []float64{0.91},
		ExpectStatus:     StatusApproved,
		ExpectIterations: 1,
		ExpectEvent:      EventResponseApproved,
	},
	{
		ID:               "technical-approved-after-revision",
		Description:      "technical question approved on the second iteration after one revision",
		Sender:           "recruiter@example.com",
		Message:          "Can you describe your experience with LangChain agents and tool-calling mechanisms?",
		Confidences:      []float64{0.8, 0.8},
		Scores:           []float64{0.70, 0.80},
		ExpectStatus:     StatusApproved,
		ExpectIterations: 2,
		ExpectEvent:      EventResponseApproved,
	},
	{
		ID:               "sensitive-topic-escalated",
		Description:      "salary and non-compete question escalates before any generation",
		Sender:           "recruiter@example.com",
		Message:          "What is the minimum salary you would accept and are you willing to sign a non-compete clause?",
		ExpectStatus:     StatusHumanIntervention,
		ExpectIterations: 0,
		ExpectHuman:      true,
		ExpectEvent:      EventHumanIntervention,
	},
	{
		ID:               "persistent-low-score-escalated",
		Description:      "scores below threshold on all iterations exhaust the budget",
		Sender:           "recruiter@example.com",
		Message:          "Could you tell us a bit more about your recent projects?",
		Confidences:      []float64{0.8},
		Scores:           []float64{0.50},
		ExpectStatus:     StatusHumanIntervention,
		ExpectIterations: 3,
		ExpectHuman:      true,
		ExpectEvent:      EventEvaluationFailed,
	},
}

// ScenarioResult is the outcome of one self-test run.
type ScenarioResult struct {
	ID      string             `json:"id"`
	Passed  bool               `json:"passed"`
	Details []string           `json:"details"`
	Outcome *ProcessingOutcome `json:"outcome"`
}

// ScenarioRunner drives the full loop against canned inputs with scripted
// stub capabilities, so runs are deterministic and free of upstream calls.
type ScenarioRunner struct {
	logger *zap.Logger
	params Params
}

// NewScenarioRunner creates a scenario runner. Scenarios always run with the
// default thresholds regardless of process configuration, since their
// expectations are written against the defaults.
func NewScenarioRunner(logger *zap.Logger) *ScenarioRunner {
	return &ScenarioRunner{logger: logger, params: DefaultParams()}
}

// ScenarioIDs lists the available scenario ids.
func (sr *ScenarioRunner) ScenarioIDs() []string {
	ids := make([]string, len(scenarios))
	for i, sc := range scenarios {
		ids[i] = sc.ID
	}
	return ids
}

// Run executes one scenario end to end and checks the outcome against the
// scenario's expectations.
func (sr *ScenarioRunner) Run(ctx context.Context, id string) (*ScenarioResult, error) {
	var sc *Scenario
	for i := range scenarios {
		if scenarios[i].ID == id {
			sc = &scenarios[i]
			break
		}
	}
	if sc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}

	journal := &scriptJournal{}
	svc := NewReplyAgentService(
		&scriptGenerator{confidences: sc.Confidences},
		&scriptScorer{scores: sc.Scores},
		&scriptNotifier{},
		journal,
		NewRiskClassifier(0.4, false, sr.logger),
		NewPendingStore(),
		sr.logger,
		sr.params,
	)

	outcome, err := svc.Submit(ctx, sc.Sender, sc.Message)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", id, err)
	}

	result := &ScenarioResult{ID: sc.ID, Passed: true, Outcome: outcome}
	check := func(ok bool, format string, args ...any) {
		if !ok {
			result.Passed = false
			result.Details = append(result.Details, fmt.Sprintf(format, args...))
		}
	}
	check(outcome.Status == sc.ExpectStatus, "status = %s, want %s", outcome.Status, sc.ExpectStatus)
	check(outcome.Iterations == sc.ExpectIterations, "iterations = %d, want %d", outcome.Iterations, sc.ExpectIterations)
	check(outcome.HumanInterventionRequired == sc.ExpectHuman, "human_intervention_required = %v, want %v", outcome.HumanInterventionRequired, sc.ExpectHuman)

	found := false
	for _, kind := range outcome.Notifications {
		if kind == sc.ExpectEvent {
			found = true
		}
	}
	check(found, "notification %s not emitted (got %v)", sc.ExpectEvent, outcome.Notifications)

	if result.Passed {
		result.Details = append(result.Details, sc.Description)
	}
	return result, nil
}

// scriptGenerator replays a fixed confidence per iteration.
type scriptGenerator struct {
	confidences []float64
	calls       int
}

func (g *scriptGenerator) GenerateReply(_ context.Context, msg *InboundMessage, feedback string, iteration int) (*Candidate, error) {
	conf := 0.8
	if len(g.confidences) > 0 {
		idx := g.calls
		if idx >= len(g.confidences) {
			idx = len(g.confidences) - 1
		}
		conf = g.confidences[idx]
	}
	g.calls++
	return &Candidate{
		Text:       fmt.Sprintf("Scripted reply %d to: %s", iteration, preview(msg.Body, 60)),
		Confidence: conf,
		Category:   CategoryClarification,
	}, nil
}

// scriptScorer replays a fixed uniform criterion score per iteration; with
// weights summing to 1.0 the aggregate equals the uniform score.
type scriptScorer struct {
	scores []float64
	calls  int
}

func (s *scriptScorer) ScoreReply(_ context.Context, _ *InboundMessage, _ *Candidate) (*ScoreReport, error) {
	score := 0.5
	if len(s.scores) > 0 {
		idx := s.calls
		if idx >= len(s.scores) {
			idx = len(s.scores) - 1
		}
		score = s.scores[idx]
	}
	s.calls++
	return &ScoreReport{
		Scores: CriterionScores{
			ProfessionalTone: score,
			Clarity:          score,
			Completeness:     score,
			Safety:           score,
			Relevance:        score,
		},
		Feedback:       "scripted feedback: tighten the closing paragraph",
		ClaimedOverall: score,
	}, nil
}

// scriptNotifier records deliveries and never fails.
type scriptNotifier struct {
	mu    sync.Mutex
	kinds []EventKind
}

func (n *scriptNotifier) Notify(_ context.Context, kind EventKind, _ map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	return nil
}

// scriptJournal is a minimal in-process journal for scenario runs.
type scriptJournal struct {
	mu   sync.Mutex
	recs []*EventRecord
}

func (j *scriptJournal) Append(_ context.Context, rec *EventRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.recs = append(j.recs, rec)
	return nil
}

func (j *scriptJournal) Recent(_ context.Context, limit int) ([]*EventRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*EventRecord, 0, limit)
	for i := len(j.recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.recs[i])
	}
	return out, nil
}
