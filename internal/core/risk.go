package core

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// riskPattern pairs a compiled sensitive-topic pattern with its topic label.
type riskPattern struct {
	re    *regexp.Regexp
	topic string
}

// Sensitive-topic patterns, matched case-insensitively against the message
// text. First match wins.
var riskPatterns = []riskPattern{
	{regexp.MustCompile(`\b(salary|compensation|pay\s?(range|scale|rate)?|wage|remuneration|minimum.*(accept|expect))\b`), "salary_negotiation"},
	{regexp.MustCompile(`\b(non[- ]?compete|nda|non[- ]?disclosure|contract\s?clause|legal|lawsuit|litigation|arbitration)\b`), "legal_contractual"},
	{regexp.MustCompile(`\b(must\s+relocate|mandatory\s+relocation|visa\s+sponsor)\b`), "relocation_pressure"},
	{regexp.MustCompile(`\b(criminal\s+record|background\s+check|marital\s+status|religion|political)\b`), "sensitive_personal"},
	{regexp.MustCompile(`\b(bank\s+account|social\s+security|tax\s+id|ssn)\b`), "financial_personal"},
}

// RiskClassifier decides whether a message or candidate reply must bypass
// automation and go to human review. It is deterministic and side-effect free.
type RiskClassifier struct {
	confidenceThreshold float64
	recheckText         bool
	logger              *zap.Logger
}

// NewRiskClassifier creates a new risk classifier. recheckText controls
// whether the sensitive-topic patterns are re-applied to generated text at the
// post-generation gate in addition to the confidence check.
func NewRiskClassifier(confidenceThreshold float64, recheckText bool, logger *zap.Logger) *RiskClassifier {
	return &RiskClassifier{
		confidenceThreshold: confidenceThreshold,
		recheckText:         recheckText,
		logger:              logger,
	}
}

// Classify checks raw inbound text before any generation happens.
func (c *RiskClassifier) Classify(text string) RiskVerdict {
	if topic, ok := matchRiskPatterns(text); ok {
		c.logger.Warn("Message flagged as sensitive topic",
			zap.String("topic", topic),
			zap.String("gate", "pre_generation"))
		return RiskVerdict{
			Risky:  true,
			Reason: ReasonSensitiveTopic,
			Detail: fmt.Sprintf("message matches sensitive topic %q, human review required", topic),
		}
	}
	return RiskVerdict{}
}

// ClassifyCandidate checks a generated candidate. The confidence gate is
// evaluated first; the keyword match on the generated text only applies when
// the classifier was configured to re-check generated text.
func (c *RiskClassifier) ClassifyCandidate(text string, confidence float64) RiskVerdict {
	if confidence < c.confidenceThreshold {
		c.logger.Warn("Candidate flagged for low confidence",
			zap.Float64("confidence", confidence),
			zap.Float64("threshold", c.confidenceThreshold))
		return RiskVerdict{
			Risky:  true,
			Reason: ReasonLowConfidence,
			Detail: fmt.Sprintf("generator confidence %.2f is below threshold %.2f", confidence, c.confidenceThreshold),
		}
	}
	if c.recheckText {
		if topic, ok := matchRiskPatterns(text); ok {
			c.logger.Warn("Generated text flagged as sensitive topic",
				zap.String("topic", topic),
				zap.String("gate", "post_generation"))
			return RiskVerdict{
				Risky:  true,
				Reason: ReasonSensitiveTopic,
				Detail: fmt.Sprintf("generated reply matches sensitive topic %q", topic),
			}
		}
	}
	return RiskVerdict{}
}

// matchRiskPatterns returns the topic of the first matching pattern.
func matchRiskPatterns(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range riskPatterns {
		if p.re.MatchString(lower) {
			return p.topic, true
		}
	}
	return "", false
}
