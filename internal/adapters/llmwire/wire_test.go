package llmwire

import (
	"testing"

	"github.com/mikey/llm-reply-agent/internal/core"
)

func TestDecodeBareJSON(t *testing.T) {
	var resp GenerationResponse
	err := Decode(`{"response":"Thanks for reaching out.","confidence":0.85,"category":"interview_invitation"}`, &resp)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if resp.Response != "Thanks for reaching out." || resp.Confidence != 0.85 {
		t.Errorf("decoded = %+v", resp)
	}
}

func TestDecodeFencedJSON(t *testing.T) {
	text := "Here is the reply:\n```json\n{\"response\":\"Hello\",\"confidence\":0.7,\"category\":\"clarification\"}\n```\nLet me know."
	var resp GenerationResponse
	if err := Decode(text, &resp); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if resp.Response != "Hello" || resp.Category != "clarification" {
		t.Errorf("decoded = %+v", resp)
	}
}

func TestDecodeNoJSON(t *testing.T) {
	var resp GenerationResponse
	if err := Decode("I cannot answer that.", &resp); err == nil {
		t.Error("expected error for prose with no JSON object")
	}
	if err := Decode("", &resp); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestToCandidateClampsConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 0.6, 0.6},
		{"above one", 1.7, 1},
		{"negative", -0.2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := GenerationResponse{Response: "x", Confidence: tt.in, Category: "technical_question"}
			cand := r.ToCandidate()
			if cand.Confidence != tt.want {
				t.Errorf("Confidence = %v, want %v", cand.Confidence, tt.want)
			}
		})
	}
}

func TestToCandidateCollapsesUnknownCategory(t *testing.T) {
	r := GenerationResponse{Response: "x", Confidence: 0.5, Category: "made_up_label"}
	if got := r.ToCandidate().Category; got != core.CategoryUnknown {
		t.Errorf("Category = %s, want unknown", got)
	}
}

func TestToReportCarriesClaimedOverall(t *testing.T) {
	r := ScoringResponse{
		Scores:       core.CriterionScores{ProfessionalTone: 0.9, Clarity: 0.8, Completeness: 0.8, Safety: 1, Relevance: 0.7},
		OverallScore: 0.42,
		Feedback:     "tighten the opening",
	}
	report := r.ToReport()
	if report.ClaimedOverall != 0.42 {
		t.Errorf("ClaimedOverall = %v", report.ClaimedOverall)
	}
	if report.Feedback != "tighten the opening" {
		t.Errorf("Feedback = %q", report.Feedback)
	}
	if report.Scores.Safety != 1 {
		t.Errorf("Scores = %+v", report.Scores)
	}
}
