package prompts

import (
	"os"
	"strings"
	"testing"
)

func TestGenerationSystemInjectsProfile(t *testing.T) {
	p := &Profile{Name: "Alex Morgan", Title: "Senior Software Engineer", Summary: "Backend engineer."}
	b := NewBuilder(p)

	sys := b.GenerationSystem()
	if !strings.Contains(sys, "Alex Morgan") {
		t.Error("system prompt does not contain the candidate name")
	}
	if !strings.Contains(sys, "interview_invitation") {
		t.Error("system prompt does not list the categories")
	}
	if !strings.Contains(sys, "confidence below 0.4") {
		t.Error("system prompt does not carry the low-confidence guidance")
	}
}

func TestGenerationSystemWithoutProfile(t *testing.T) {
	b := NewBuilder(&Profile{})
	if !strings.Contains(b.GenerationSystem(), "No candidate profile loaded") {
		t.Error("empty profile should fall back to the etiquette notice")
	}
}

func TestGenerationUserRevision(t *testing.T) {
	b := NewBuilder(&Profile{})

	// First attempt: the message goes through untouched.
	if got := b.GenerationUser("Are you available Tuesday?", ""); got != "Are you available Tuesday?" {
		t.Errorf("first attempt prompt = %q", got)
	}

	// With feedback the prompt becomes a revision request.
	got := b.GenerationUser("Are you available Tuesday?", "be more specific about times")
	if !strings.Contains(got, "did not pass quality checks") {
		t.Error("revision prompt missing revision framing")
	}
	if !strings.Contains(got, "be more specific about times") {
		t.Error("revision prompt missing evaluator feedback")
	}
	if !strings.Contains(got, "Are you available Tuesday?") {
		t.Error("revision prompt missing original message")
	}
}

func TestScoringPrompts(t *testing.T) {
	b := NewBuilder(&Profile{})

	sys := b.ScoringSystem()
	for _, criterion := range []string{"professional_tone", "clarity", "completeness", "safety", "relevance"} {
		if !strings.Contains(sys, criterion) {
			t.Errorf("scoring prompt missing criterion %s", criterion)
		}
	}

	user := b.ScoringUser("the message", "the reply")
	if !strings.Contains(user, "the message") || !strings.Contains(user, "the reply") {
		t.Errorf("scoring user prompt = %q", user)
	}
}

func TestRenderSummaryDeterministic(t *testing.T) {
	p := &Profile{
		Name:  "Alex Morgan",
		Title: "Engineer",
		Skills: map[string][]string{
			"languages":      {"Go", "Python"},
			"infrastructure": {"Kubernetes"},
			"practices":      {"Observability"},
		},
	}
	first := p.RenderSummary()
	for i := 0; i < 10; i++ {
		if got := p.RenderSummary(); got != first {
			t.Fatal("RenderSummary output varies across calls")
		}
	}
	if !strings.Contains(first, "infrastructure: Kubernetes") {
		t.Errorf("summary missing skills block:\n%s", first)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	p, err := LoadProfile("/nonexistent/profile.yaml")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v, missing file should not fail", err)
	}
	if p.Name != "" {
		t.Errorf("expected empty profile, got %+v", p)
	}
}

func TestLoadProfileParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/profile.yaml"
	data := `
name: "Jamie Rivers"
title: "Platform Engineer"
skills:
  languages: ["Go"]
preferences:
  work_type: "Remote"
  notice_period: "2 weeks"
  willing_to_relocate: true
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.Name != "Jamie Rivers" || p.Title != "Platform Engineer" {
		t.Errorf("profile = %+v", p)
	}
	if !p.Preferences.WillingToRelocate {
		t.Error("preferences not parsed")
	}
	if !strings.Contains(p.RenderSummary(), "Relocate: Yes") {
		t.Error("summary missing relocation preference")
	}
}
