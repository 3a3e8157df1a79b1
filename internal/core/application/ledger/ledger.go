// Package ledger records what orders looked like before an optimistic bulk
// mutation so the mutation can be rolled back exactly once.
//
// A batch is opened with BeginBatch, which snapshots every order it names.
// While the remote calls run, the caller reports their outcome with
// MarkCompleted and MarkFailed. The batch is then closed in one of three ways:
//
//   - Revert produces a plan covering every snapshot (user undo);
//   - RevertFailed produces a plan covering only the failed snapshots;
//   - Discard drops the snapshots once the mutation is final.
//
// Reverting twice is safe: the second call returns the same plan marked
// Replayed so the caller issues no compensating call twice.
//
// Example:
//
//	h, err := l.BeginBatch([]string{"ord-1", "ord-2"})
//	if err != nil {
//	    return err
//	}
//	h.MarkCompleted("ord-1")
//	plan, _ := l.Revert(h)
//	for _, e := range plan.Entries {
//	    if e.NeedsRemoteRevert {
//	        // send a compensating call restoring e.OriginalStatus
//	    }
//	}
package ledger

import (
	"errors"
	"sync"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"
)

var (
	// ErrBatchDiscarded is returned when reverting a batch that was already discarded.
	ErrBatchDiscarded = errors.New("batch already discarded")

	// ErrUnknownBatch is returned for a handle that this ledger did not open.
	ErrUnknownBatch = errors.New("batch does not belong to this ledger")
)

// Source provides the current local copy of an order.
type Source interface {
	Get(id string) (*order.Order, bool)
}

// Ledger opens and closes batches against a Source.
type Ledger struct {
	source Source

	mu   sync.Mutex
	open map[string]*BatchHandle
}

// New creates a ledger reading snapshots from source.
func New(source Source) *Ledger {
	return &Ledger{
		source: source,
		open:   map[string]*BatchHandle{},
	}
}

// BeginBatch snapshots orderIDs in the given order. Duplicate ids are snapshotted
// once. It fails with errs.ErrObjectNotFound when an id is not in the source and
// opens nothing in that case.
func (l *Ledger) BeginBatch(orderIDs []string) (*BatchHandle, error) {
	h := &BatchHandle{
		id:    kernel.NewUUID(),
		index: make(map[string]int, len(orderIDs)),
	}

	for _, id := range orderIDs {
		if _, dup := h.index[id]; dup {
			continue
		}
		current, ok := l.source.Get(id)
		if !ok {
			return nil, errs.NewObjectNotFoundError("orderId", id)
		}
		h.index[id] = len(h.entries)
		h.entries = append(h.entries, Snapshot{
			OrderID:  id,
			Original: current.Clone(),
			Progress: Pending,
		})
	}

	l.mu.Lock()
	l.open[h.id.String()] = h
	l.mu.Unlock()

	return h, nil
}

// Revert closes the batch and returns a plan restoring every snapshot.
// Completed snapshots need a compensating remote call; the rest only need
// the local copy restored.
func (l *Ledger) Revert(h *BatchHandle) (RevertPlan, error) {
	return l.revert(h, func(Snapshot) bool { return true })
}

// RevertFailed closes the batch and returns a plan restoring only the snapshots
// whose remote call failed. None of them needs a remote revert.
func (l *Ledger) RevertFailed(h *BatchHandle) (RevertPlan, error) {
	return l.revert(h, func(s Snapshot) bool { return s.Progress == Failed })
}

// Discard drops the batch. Later reverts fail with ErrBatchDiscarded;
// discarding a reverted or discarded batch is a no-op.
func (l *Ledger) Discard(h *BatchHandle) {
	if h == nil {
		return
	}

	h.mu.Lock()
	if h.state == open {
		h.state = discarded
	}
	h.mu.Unlock()

	l.release(h)
}

// Open returns the number of batches neither reverted nor discarded.
func (l *Ledger) Open() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.open)
}

func (l *Ledger) revert(h *BatchHandle, include func(Snapshot) bool) (RevertPlan, error) {
	if h == nil {
		return RevertPlan{}, ErrUnknownBatch
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case discarded:
		return RevertPlan{}, ErrBatchDiscarded
	case reverted:
		replay := h.plan
		replay.Entries = append([]PlanEntry(nil), h.plan.Entries...)
		replay.Replayed = true
		return replay, nil
	}

	plan := RevertPlan{BatchID: h.id}
	for _, s := range h.entries {
		if !include(s) {
			continue
		}
		plan.Entries = append(plan.Entries, PlanEntry{
			OrderID:           s.OrderID,
			Original:          s.Original,
			OriginalStatus:    s.Original.Status(),
			NeedsRemoteRevert: s.Progress == Completed,
		})
	}
	h.state = reverted
	h.plan = plan

	l.release(h)
	return plan, nil
}

func (l *Ledger) release(h *BatchHandle) {
	l.mu.Lock()
	delete(l.open, h.id.String())
	l.mu.Unlock()
}
