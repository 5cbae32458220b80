package core

import (
	"testing"

	"go.uber.org/zap"
)

func TestClassifySensitiveTopics(t *testing.T) {
	c := NewRiskClassifier(0.4, false, zap.NewNop())

	tests := []struct {
		name      string
		text      string
		wantRisky bool
	}{
		{"salary mention", "What is your expected salary for this role?", true},
		{"compensation mention", "Let's discuss compensation before we proceed.", true},
		{"non-compete clause", "You would need to sign a non-compete agreement.", true},
		{"nda uppercase", "Please review the NDA attached to this email.", true},
		{"relocation pressure", "You must relocate to our Berlin office.", true},
		{"background check", "We require a background check before the offer.", true},
		{"bank details", "Send us your bank account number for payroll setup.", true},
		{"plain interview invite", "We would like to invite you to an interview next Tuesday.", false},
		{"technical question", "Can you describe your experience with Go and Kubernetes?", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(tt.text)
			if v.Risky != tt.wantRisky {
				t.Errorf("Classify(%q).Risky = %v, want %v", tt.text, v.Risky, tt.wantRisky)
			}
			if tt.wantRisky && v.Reason != ReasonSensitiveTopic {
				t.Errorf("Classify(%q).Reason = %q, want %q", tt.text, v.Reason, ReasonSensitiveTopic)
			}
		})
	}
}

func TestClassifyCandidateConfidenceGate(t *testing.T) {
	c := NewRiskClassifier(0.4, false, zap.NewNop())

	tests := []struct {
		name       string
		confidence float64
		wantRisky  bool
	}{
		{"well above threshold", 0.9, false},
		{"exactly at threshold", 0.4, false},
		{"just below threshold", 0.39, true},
		{"zero confidence", 0.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.ClassifyCandidate("Thank you for reaching out.", tt.confidence)
			if v.Risky != tt.wantRisky {
				t.Errorf("ClassifyCandidate(confidence=%v).Risky = %v, want %v", tt.confidence, v.Risky, tt.wantRisky)
			}
			if tt.wantRisky && v.Reason != ReasonLowConfidence {
				t.Errorf("Reason = %q, want %q", v.Reason, ReasonLowConfidence)
			}
		})
	}
}

func TestClassifyCandidateRecheckText(t *testing.T) {
	risky := "I would be happy to discuss salary expectations."

	// Recheck disabled: confident candidates pass even with sensitive wording.
	off := NewRiskClassifier(0.4, false, zap.NewNop())
	if v := off.ClassifyCandidate(risky, 0.9); v.Risky {
		t.Errorf("recheck disabled: got risky verdict %+v", v)
	}

	// Recheck enabled: the same candidate is flagged.
	on := NewRiskClassifier(0.4, true, zap.NewNop())
	v := on.ClassifyCandidate(risky, 0.9)
	if !v.Risky {
		t.Fatal("recheck enabled: expected risky verdict")
	}
	if v.Reason != ReasonSensitiveTopic {
		t.Errorf("Reason = %q, want %q", v.Reason, ReasonSensitiveTopic)
	}

	// Confidence gate still runs first.
	v = on.ClassifyCandidate("Looking forward to the interview.", 0.1)
	if v.Reason != ReasonLowConfidence {
		t.Errorf("Reason = %q, want %q", v.Reason, ReasonLowConfidence)
	}
}

func TestMatchRiskPatternsCaseInsensitive(t *testing.T) {
	topic, ok := matchRiskPatterns("DETAILS OF THE LAWSUIT ARE CONFIDENTIAL")
	if !ok {
		t.Fatal("expected a match")
	}
	if topic != "legal_contractual" {
		t.Errorf("topic = %q, want legal_contractual", topic)
	}
}
