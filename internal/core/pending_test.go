package core

import (
	"errors"
	"testing"
)

func TestPendingStoreLifecycle(t *testing.T) {
	store := NewPendingStore()

	msg := &InboundMessage{Sender: "r@example.com", Body: "salary question", CorrelationID: "c-1"}
	verdict := RiskVerdict{Risky: true, Reason: ReasonSensitiveTopic, Detail: "salary_negotiation"}

	id := store.Add(msg, verdict)
	if id == "" {
		t.Fatal("Add returned empty id")
	}

	item, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if item.Status != PendingOpen {
		t.Errorf("Status = %s, want open", item.Status)
	}
	if item.Sender != msg.Sender || item.Message != msg.Body || item.CorrelationID != "c-1" {
		t.Errorf("item fields = %+v", item)
	}
	if item.Reason != ReasonSensitiveTopic {
		t.Errorf("Reason = %s", item.Reason)
	}

	resolved, err := store.Resolve(id, "answered by recruiter liaison")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Status != PendingResolved {
		t.Errorf("Status = %s, want resolved", resolved.Status)
	}
	if resolved.Resolution != "answered by recruiter liaison" {
		t.Errorf("Resolution = %q", resolved.Resolution)
	}
	if resolved.ResolvedAt.IsZero() {
		t.Error("ResolvedAt not set")
	}
}

func TestPendingStoreListFiltersResolved(t *testing.T) {
	store := NewPendingStore()
	verdict := RiskVerdict{Risky: true, Reason: ReasonLowConfidence}

	first := store.Add(&InboundMessage{Sender: "a@example.com", Body: "one"}, verdict)
	store.Add(&InboundMessage{Sender: "b@example.com", Body: "two"}, verdict)

	if got := len(store.List(true)); got != 2 {
		t.Fatalf("open count = %d, want 2", got)
	}

	if _, err := store.Resolve(first, "done"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	open := store.List(true)
	if len(open) != 1 {
		t.Fatalf("open count after resolve = %d, want 1", len(open))
	}
	if open[0].Message != "two" {
		t.Errorf("remaining open item = %q, want the unresolved one", open[0].Message)
	}
	if got := len(store.List(false)); got != 2 {
		t.Errorf("full count = %d, want 2", got)
	}
}

func TestPendingStoreUnknownID(t *testing.T) {
	store := NewPendingStore()

	if _, err := store.Get("missing"); !errors.Is(err, ErrPendingNotFound) {
		t.Errorf("Get() error = %v, want ErrPendingNotFound", err)
	}
	if _, err := store.Resolve("missing", "n/a"); !errors.Is(err, ErrPendingNotFound) {
		t.Errorf("Resolve() error = %v, want ErrPendingNotFound", err)
	}
}

func TestPendingStoreReturnsCopies(t *testing.T) {
	store := NewPendingStore()
	id := store.Add(&InboundMessage{Sender: "a@example.com", Body: "one"}, RiskVerdict{Risky: true})

	item, _ := store.Get(id)
	item.Resolution = "mutated by caller"

	fresh, _ := store.Get(id)
	if fresh.Resolution != "" {
		t.Error("caller mutation leaked into the store")
	}
}
