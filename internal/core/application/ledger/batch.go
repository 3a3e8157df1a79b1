package ledger

import (
	"sync"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
)

// Progress is how far the remote call for one snapshot got.
type Progress int

const (
	Pending Progress = iota
	Completed
	Failed
)

func (p Progress) String() string {
	switch p {
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

type handleState int

const (
	open handleState = iota
	reverted
	discarded
)

// Snapshot is the pre-mutation copy of one order in a batch.
type Snapshot struct {
	OrderID  string
	Original *order.Order
	Progress Progress
	Err      error
}

// PlanEntry restores one order.
type PlanEntry struct {
	OrderID           string
	Original          *order.Order
	OriginalStatus    order.Status
	NeedsRemoteRevert bool
}

// RevertPlan lists what to restore. Replayed is set when the batch had
// already been reverted and the plan must not be executed again.
type RevertPlan struct {
	BatchID  kernel.UUID
	Entries  []PlanEntry
	Replayed bool
}

// RemoteReverts returns the entries needing a compensating remote call.
func (p RevertPlan) RemoteReverts() []PlanEntry {
	var out []PlanEntry
	for _, e := range p.Entries {
		if e.NeedsRemoteRevert {
			out = append(out, e)
		}
	}
	return out
}

// Originals returns the snapshot of every entry.
func (p RevertPlan) Originals() []*order.Order {
	out := make([]*order.Order, 0, len(p.Entries))
	for _, e := range p.Entries {
		out = append(out, e.Original)
	}
	return out
}

// BatchHandle is one open batch. It is safe for concurrent use.
type BatchHandle struct {
	id kernel.UUID

	mu      sync.Mutex
	entries []Snapshot
	index   map[string]int
	state   handleState
	plan    RevertPlan
}

// ID returns the batch identifier.
func (h *BatchHandle) ID() kernel.UUID { return h.id }

// Len returns the number of snapshots.
func (h *BatchHandle) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Snapshots returns the snapshots in batch order.
func (h *BatchHandle) Snapshots() []Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Snapshot(nil), h.entries...)
}

// Snapshot returns the snapshot of orderID.
func (h *BatchHandle) Snapshot(orderID string) (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i, ok := h.index[orderID]
	if !ok {
		return Snapshot{}, false
	}
	return h.entries[i], true
}

// MarkCompleted records that the remote call for orderID succeeded.
func (h *BatchHandle) MarkCompleted(orderID string) {
	h.mark(orderID, Completed, nil)
}

// MarkFailed records that the remote call for orderID failed with err.
func (h *BatchHandle) MarkFailed(orderID string, err error) {
	h.mark(orderID, Failed, err)
}

// Failed returns the snapshots whose remote call failed.
func (h *BatchHandle) Failed() []Snapshot {
	return h.filter(Failed)
}

// Completed returns the snapshots whose remote call succeeded.
func (h *BatchHandle) Completed() []Snapshot {
	return h.filter(Completed)
}

func (h *BatchHandle) filter(p Progress) []Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Snapshot
	for _, s := range h.entries {
		if s.Progress == p {
			out = append(out, s)
		}
	}
	return out
}

func (h *BatchHandle) mark(orderID string, p Progress, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != open {
		return
	}
	i, ok := h.index[orderID]
	if !ok {
		return
	}
	h.entries[i].Progress = p
	h.entries[i].Err = err
}
