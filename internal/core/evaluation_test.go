package core

import (
	"errors"
	"math"
	"testing"
)

func TestWeightedAggregate(t *testing.T) {
	tests := []struct {
		name   string
		scores CriterionScores
		want   float64
	}{
		{
			"all ones",
			CriterionScores{ProfessionalTone: 1, Clarity: 1, Completeness: 1, Safety: 1, Relevance: 1},
			1.0,
		},
		{
			"all zeros",
			CriterionScores{},
			0.0,
		},
		{
			"mixed scores",
			CriterionScores{ProfessionalTone: 0.8, Clarity: 0.9, Completeness: 0.7, Safety: 1.0, Relevance: 0.6},
			// 0.8*0.25 + 0.9*0.20 + 0.7*0.20 + 1.0*0.25 + 0.6*0.10
			0.83,
		},
		{
			"rounds to four decimals",
			CriterionScores{ProfessionalTone: 0.333, Clarity: 0.333, Completeness: 0.333, Safety: 0.333, Relevance: 0.333},
			0.333,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.scores.WeightedAggregate()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WeightedAggregate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, c := range (CriterionScores{}).Breakdown() {
		total += c.Weight
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("criterion weights sum to %v, want 1.0", total)
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name    string
		scores  CriterionScores
		wantErr bool
	}{
		{"valid bounds", CriterionScores{ProfessionalTone: 0, Clarity: 1, Completeness: 0.5, Safety: 0.5, Relevance: 0.5}, false},
		{"negative score", CriterionScores{ProfessionalTone: -0.1, Clarity: 1, Completeness: 1, Safety: 1, Relevance: 1}, true},
		{"above one", CriterionScores{ProfessionalTone: 1, Clarity: 1.01, Completeness: 1, Safety: 1, Relevance: 1}, true},
		{"nan score", CriterionScores{Safety: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scores.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedEvaluation) {
				t.Errorf("Validate() error = %v, want ErrMalformedEvaluation", err)
			}
		})
	}
}

func TestBuildEvaluationRecomputesAggregate(t *testing.T) {
	cand := &Candidate{Text: "Thanks for the invitation.", Confidence: 0.9}
	report := &ScoreReport{
		Scores:         CriterionScores{ProfessionalTone: 0.8, Clarity: 0.8, Completeness: 0.8, Safety: 0.8, Relevance: 0.8},
		Feedback:       "solid reply",
		ClaimedOverall: 0.99, // must be ignored
	}

	eval, err := BuildEvaluation(report, cand)
	if err != nil {
		t.Fatalf("BuildEvaluation() error = %v", err)
	}
	if math.Abs(eval.Aggregate-0.8) > 1e-9 {
		t.Errorf("Aggregate = %v, want 0.8 (recomputed, not claimed)", eval.Aggregate)
	}
	if eval.Feedback != "solid reply" {
		t.Errorf("Feedback = %q", eval.Feedback)
	}
	if eval.Candidate != cand {
		t.Error("Candidate not carried through")
	}
}

func TestBuildEvaluationRejectsMalformed(t *testing.T) {
	if _, err := BuildEvaluation(nil, nil); !errors.Is(err, ErrMalformedEvaluation) {
		t.Errorf("nil report: error = %v, want ErrMalformedEvaluation", err)
	}

	report := &ScoreReport{Scores: CriterionScores{ProfessionalTone: 2}}
	if _, err := BuildEvaluation(report, nil); !errors.Is(err, ErrMalformedEvaluation) {
		t.Errorf("out-of-range score: error = %v, want ErrMalformedEvaluation", err)
	}
}

func TestApprovedThresholdIsInclusive(t *testing.T) {
	eval := &Evaluation{Aggregate: 0.75}
	if !eval.Approved(0.75) {
		t.Error("aggregate equal to threshold should be approved")
	}
	eval.Aggregate = 0.7499
	if eval.Approved(0.75) {
		t.Error("aggregate below threshold should not be approved")
	}
}
