package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/adapters/journal"
	"github.com/mikey/llm-reply-agent/internal/core"
)

type fixedGenerator struct {
	candidate core.Candidate
}

func (g *fixedGenerator) GenerateReply(_ context.Context, _ *core.InboundMessage, _ string, _ int) (*core.Candidate, error) {
	c := g.candidate
	return &c, nil
}

type fixedScorer struct {
	score float64
}

func (s *fixedScorer) ScoreReply(_ context.Context, _ *core.InboundMessage, _ *core.Candidate) (*core.ScoreReport, error) {
	return &core.ScoreReport{
		Scores: core.CriterionScores{
			ProfessionalTone: s.score,
			Clarity:          s.score,
			Completeness:     s.score,
			Safety:           s.score,
			Relevance:        s.score,
		},
		Feedback: "fixed feedback",
	}, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(_ context.Context, _ core.EventKind, _ map[string]any) error {
	return nil
}

func newTestServer(t *testing.T) (*Server, *core.PendingStore) {
	t.Helper()
	logger := zap.NewNop()
	pending := core.NewPendingStore()
	svc := core.NewReplyAgentService(
		&fixedGenerator{candidate: core.Candidate{Text: "Glad to help.", Confidence: 0.9, Category: core.CategoryClarification}},
		&fixedScorer{score: 0.9},
		noopNotifier{},
		journal.NewMemoryJournal(0, logger),
		core.NewRiskClassifier(0.4, false, logger),
		pending,
		logger,
		core.DefaultParams(),
	)
	srv := NewServer(svc, core.NewScenarioRunner(logger), pending, "127.0.0.1:0", 50, logger)
	return srv, pending
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(encoded))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := srv.App().Test(req, 5000)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, srv, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestSubmitMessageApproved(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/messages", submitRequest{
		Sender:  "recruiter@example.com",
		Message: "Can we schedule a call on Thursday?",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out outcomeResponse
	decodeBody(t, resp, &out)
	if out.Status != string(core.StatusApproved) {
		t.Errorf("status = %s, want approved", out.Status)
	}
	if out.Response != "Glad to help." {
		t.Errorf("response = %q", out.Response)
	}
	if out.EvaluatorScore != 0.9 {
		t.Errorf("evaluator_score = %v", out.EvaluatorScore)
	}
	if len(out.Scores) != 5 {
		t.Errorf("scores breakdown has %d entries, want 5", len(out.Scores))
	}
	if out.CorrelationID == "" {
		t.Error("correlation_id missing")
	}
}

func TestSubmitMessageValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/messages", submitRequest{Sender: "", Message: ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSubmitSensitiveMessageEscalates(t *testing.T) {
	srv, pending := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/messages", submitRequest{
		Sender:  "recruiter@example.com",
		Message: "What salary do you expect?",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out outcomeResponse
	decodeBody(t, resp, &out)
	if out.Status != string(core.StatusHumanIntervention) {
		t.Errorf("status = %s, want human_intervention_required", out.Status)
	}
	if !out.HumanInterventionRequired {
		t.Error("human_intervention_required flag not set")
	}
	if out.PendingID == "" {
		t.Fatal("pending_id missing on escalation")
	}
	if _, err := pending.Get(out.PendingID); err != nil {
		t.Errorf("pending entry missing: %v", err)
	}
}

func TestEventsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/messages", submitRequest{
		Sender:  "recruiter@example.com",
		Message: "A normal question about availability.",
	}).Body.Close()

	resp := doJSON(t, srv, http.MethodGet, "/events?limit=10", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Events []json.RawMessage `json:"events"`
	}
	decodeBody(t, resp, &body)
	if len(body.Events) == 0 {
		t.Error("no events returned after a processed message")
	}
}

func TestScenarioEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/scenarios", nil)
	var list struct {
		Scenarios []string `json:"scenarios"`
	}
	decodeBody(t, resp, &list)
	if len(list.Scenarios) == 0 {
		t.Fatal("no scenarios listed")
	}

	resp = doJSON(t, srv, http.MethodPost, "/scenarios/"+list.Scenarios[0]+"/run", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("run status = %d", resp.StatusCode)
	}
	var result core.ScenarioResult
	decodeBody(t, resp, &result)
	if !result.Passed {
		t.Errorf("scenario %s failed: %v", list.Scenarios[0], result.Details)
	}

	resp = doJSON(t, srv, http.MethodPost, "/scenarios/does-not-exist/run", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown scenario status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPendingEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	// Create an escalation first.
	var out outcomeResponse
	resp := doJSON(t, srv, http.MethodPost, "/messages", submitRequest{
		Sender:  "recruiter@example.com",
		Message: "Please sign the NDA before we continue.",
	})
	decodeBody(t, resp, &out)
	if out.PendingID == "" {
		t.Fatal("no pending id")
	}

	resp = doJSON(t, srv, http.MethodGet, "/pending", nil)
	var listing struct {
		Pending []core.PendingEscalation `json:"pending"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Pending) != 1 {
		t.Fatalf("pending count = %d, want 1", len(listing.Pending))
	}

	resp = doJSON(t, srv, http.MethodPost, "/pending/"+out.PendingID+"/resolve",
		map[string]string{"resolution": "handled by a human"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve status = %d", resp.StatusCode)
	}
	var item core.PendingEscalation
	decodeBody(t, resp, &item)
	if item.Status != core.PendingResolved {
		t.Errorf("status = %s, want resolved", item.Status)
	}

	// Open-only listing is now empty.
	resp = doJSON(t, srv, http.MethodGet, "/pending", nil)
	decodeBody(t, resp, &listing)
	if len(listing.Pending) != 0 {
		t.Errorf("open pending count = %d, want 0", len(listing.Pending))
	}

	resp = doJSON(t, srv, http.MethodPost, "/pending/unknown/resolve",
		map[string]string{"resolution": "x"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown pending status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}
