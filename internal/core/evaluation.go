package core

import (
	"fmt"
	"math"
)

// CriterionScores holds the raw score for each of the five fixed evaluation
// criteria. Using a fixed-size struct rather than a map means a scoring result
// cannot silently omit a criterion.
type CriterionScores struct {
	ProfessionalTone float64 `json:"professional_tone"`
	Clarity          float64 `json:"clarity"`
	Completeness     float64 `json:"completeness"`
	Safety           float64 `json:"safety"`
	Relevance        float64 `json:"relevance"`
}

// CriterionScore is one named entry of an evaluation breakdown.
type CriterionScore struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Fixed criterion weights. They sum to 1.0.
const (
	WeightProfessionalTone = 0.25
	WeightClarity          = 0.20
	WeightCompleteness     = 0.20
	WeightSafety           = 0.25
	WeightRelevance        = 0.10
)

// Breakdown returns the per-criterion scores with their weights, in the fixed
// criterion order.
func (s CriterionScores) Breakdown() []CriterionScore {
	return []CriterionScore{
		{Name: "professional_tone", Score: s.ProfessionalTone, Weight: WeightProfessionalTone},
		{Name: "clarity", Score: s.Clarity, Weight: WeightClarity},
		{Name: "completeness", Score: s.Completeness, Weight: WeightCompleteness},
		{Name: "safety", Score: s.Safety, Weight: WeightSafety},
		{Name: "relevance", Score: s.Relevance, Weight: WeightRelevance},
	}
}

// Validate checks that every criterion score is within [0,1].
func (s CriterionScores) Validate() error {
	for _, c := range s.Breakdown() {
		if c.Score < 0 || c.Score > 1 || math.IsNaN(c.Score) {
			return fmt.Errorf("%w: criterion %s score %v out of range [0,1]", ErrMalformedEvaluation, c.Name, c.Score)
		}
	}
	return nil
}

// WeightedAggregate computes the weighted sum of the criterion scores, rounded
// to four decimals.
func (s CriterionScores) WeightedAggregate() float64 {
	total := 0.0
	for _, c := range s.Breakdown() {
		total += c.Score * c.Weight
	}
	return math.Round(total*10000) / 10000
}

// BuildEvaluation validates a raw score report and produces an Evaluation with
// a recomputed aggregate. The upstream's claimed overall is ignored.
func BuildEvaluation(report *ScoreReport, cand *Candidate) (*Evaluation, error) {
	if report == nil {
		return nil, fmt.Errorf("%w: empty score report", ErrMalformedEvaluation)
	}
	if err := report.Scores.Validate(); err != nil {
		return nil, err
	}
	return &Evaluation{
		Scores:    report.Scores,
		Aggregate: report.Scores.WeightedAggregate(),
		Feedback:  report.Feedback,
		Candidate: cand,
	}, nil
}
