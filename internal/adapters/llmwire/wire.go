// Package llmwire holds the JSON envelopes every LLM provider adapter
// expects back from the model, plus tolerant decoding for replies wrapped in
// prose or markdown fences.
package llmwire

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mikey/llm-reply-agent/internal/core"
)

// GenerationResponse is the structured generation output from the LLM.
type GenerationResponse struct {
	Response   string  `json:"response"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category"`
}

// ToCandidate converts the wire response into a core Candidate. Confidence is
// clamped into [0,1].
func (r *GenerationResponse) ToCandidate() *core.Candidate {
	conf := r.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return &core.Candidate{
		Text:       r.Response,
		Confidence: conf,
		Category:   core.ParseCategory(r.Category),
	}
}

// ScoringResponse is the structured scoring output from the LLM.
type ScoringResponse struct {
	Scores       core.CriterionScores `json:"scores"`
	OverallScore float64              `json:"overall_score"`
	Feedback     string               `json:"feedback"`
}

// ToReport converts the wire response into a raw score report. Validation and
// aggregate recomputation happen in the core.
func (r *ScoringResponse) ToReport() *core.ScoreReport {
	return &core.ScoreReport{
		Scores:         r.Scores,
		Feedback:       r.Feedback,
		ClaimedOverall: r.OverallScore,
	}
}

// Decode unmarshals LLM output into v. When the output is not bare JSON it
// falls back to the outermost {...} span, which covers markdown code fences
// and leading prose.
func Decode(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in LLM response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return nil
}
