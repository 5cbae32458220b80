package core

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PendingStatus is the lifecycle state of a queued escalation.
type PendingStatus string

const (
	PendingOpen     PendingStatus = "open"
	PendingResolved PendingStatus = "resolved"
)

// PendingEscalation is one message waiting for a human reply.
type PendingEscalation struct {
	ID            string
	Sender        string
	Message       string
	CorrelationID string
	Reason        RiskReason
	Detail        string
	Status        PendingStatus
	CreatedAt     time.Time
	ResolvedAt    time.Time
	Resolution    string
}

// PendingStore is an in-memory queue of escalated messages. Runs for
// different messages may append concurrently.
type PendingStore struct {
	mu    sync.RWMutex
	items map[string]*PendingEscalation
}

// NewPendingStore creates an empty pending store.
func NewPendingStore() *PendingStore {
	return &PendingStore{items: make(map[string]*PendingEscalation)}
}

// Add queues an escalated message and returns its pending id.
func (p *PendingStore) Add(msg *InboundMessage, verdict RiskVerdict) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	item := &PendingEscalation{
		ID:            uuid.NewString(),
		Sender:        msg.Sender,
		Message:       msg.Body,
		CorrelationID: msg.CorrelationID,
		Reason:        verdict.Reason,
		Detail:        verdict.Detail,
		Status:        PendingOpen,
		CreatedAt:     time.Now().UTC(),
	}
	p.items[item.ID] = item
	return item.ID
}

// Get returns a pending escalation by id.
func (p *PendingStore) Get(id string) (*PendingEscalation, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	item, ok := p.items[id]
	if !ok {
		return nil, ErrPendingNotFound
	}
	cp := *item
	return &cp, nil
}

// List returns all pending escalations, oldest first. When openOnly is set,
// resolved items are filtered out.
func (p *PendingStore) List(openOnly bool) []*PendingEscalation {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*PendingEscalation, 0, len(p.items))
	for _, item := range p.items {
		if openOnly && item.Status != PendingOpen {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Resolve records the human's answer for a pending escalation.
func (p *PendingStore) Resolve(id, resolution string) (*PendingEscalation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.items[id]
	if !ok {
		return nil, ErrPendingNotFound
	}
	item.Status = PendingResolved
	item.ResolvedAt = time.Now().UTC()
	item.Resolution = resolution
	cp := *item
	return &cp, nil
}
