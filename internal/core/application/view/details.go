package view

import (
	"context"
	"sync"

	"orderdesk/internal/core/domain/model/order"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// DetailSource fetches one authoritative order.
type DetailSource interface {
	Fetch(ctx context.Context, orderID string) (*order.Order, error)
}

// Details caches the snapshots of orders opened in a detail view.
// Only tracked orders are cached; a refetch that lands after Untrack is dropped.
type Details struct {
	source DetailSource
	logger *zap.Logger

	mu      sync.Mutex
	tracked map[string]int
	snap    atomic.Pointer[map[string]*order.Order]
}

// NewDetails creates an empty detail cache backed by source.
func NewDetails(source DetailSource, logger *zap.Logger) *Details {
	d := &Details{
		source:  source,
		logger:  logger.With(zap.String("component", "order-details")),
		tracked: map[string]int{},
	}
	empty := map[string]*order.Order{}
	d.snap.Store(&empty)
	return d
}

// Track registers one more viewer of id.
func (d *Details) Track(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tracked[id]++
}

// Untrack removes one viewer of id and drops the snapshot with the last one.
// It reports whether id is no longer tracked.
func (d *Details) Untrack(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tracked[id] == 0 {
		return true
	}
	d.tracked[id]--
	if d.tracked[id] > 0 {
		return false
	}
	delete(d.tracked, id)
	d.storeLocked(id, nil)
	return true
}

// Get returns the cached snapshot of id.
func (d *Details) Get(id string) (*order.Order, bool) {
	o, ok := (*d.snap.Load())[id]
	return o, ok
}

// Put replaces tracked snapshots. Untracked orders are ignored.
func (d *Details) Put(orders ...*order.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, o := range orders {
		if o == nil || d.tracked[o.ID()] == 0 {
			continue
		}
		d.storeLocked(o.ID(), o)
	}
}

// Refresh refetches id if it is tracked.
func (d *Details) Refresh(ctx context.Context, id string) error {
	o, err := d.source.Fetch(ctx, id)
	if err != nil {
		d.logger.Warn("detail refetch failed", zap.String("orderId", id), zap.Error(err))
		return err
	}
	d.Put(o)
	return nil
}

func (d *Details) storeLocked(id string, o *order.Order) {
	cur := *d.snap.Load()
	next := make(map[string]*order.Order, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	if o == nil {
		delete(next, id)
	} else {
		next[id] = o
	}
	d.snap.Store(&next)
}
