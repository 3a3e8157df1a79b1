// Package view holds the session's in-memory copies of backend state: the
// unfiltered order list and the detail snapshots of opened orders.
//
// Published orders are immutable values (every order operation returns a
// copy), so readers get them without locking. Writers are serialized and swap
// a new snapshot in place.
package view

import (
	"context"
	"slices"
	"sync"
	"time"

	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// ListSource fetches the authoritative order list.
type ListSource interface {
	List(ctx context.Context, filters ports.ListFilters) ([]*order.Order, error)
}

type listSnapshot struct {
	ids         []string
	byID        map[string]*order.Order
	version     uint64
	refreshedAt time.Time
}

// List is the unfiltered order collection shown on the admin desk.
// Optimistic writes and refetches both land here; the last writer wins.
type List struct {
	source ListSource
	logger *zap.Logger

	mu   sync.Mutex
	snap atomic.Pointer[listSnapshot]
}

// NewList creates an empty list backed by source.
func NewList(source ListSource, logger *zap.Logger) *List {
	l := &List{
		source: source,
		logger: logger.With(zap.String("component", "order-list")),
	}
	l.snap.Store(&listSnapshot{byID: map[string]*order.Order{}})
	return l
}

// Get returns the current copy of an order.
func (l *List) Get(id string) (*order.Order, bool) {
	o, ok := l.snap.Load().byID[id]
	return o, ok
}

// Orders returns every order in list order.
func (l *List) Orders() []*order.Order {
	s := l.snap.Load()
	out := make([]*order.Order, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of orders in the list.
func (l *List) Len() int { return len(l.snap.Load().ids) }

// Version increases on every write.
func (l *List) Version() uint64 { return l.snap.Load().version }

// RefreshedAt returns when the list was last replaced from the source.
func (l *List) RefreshedAt() time.Time { return l.snap.Load().refreshedAt }

// Put upserts orders. New ids are appended at the end.
func (l *List) Put(orders ...*order.Order) {
	if len(orders) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.snap.Load()
	next := &listSnapshot{
		ids:         slices.Clone(cur.ids),
		byID:        make(map[string]*order.Order, len(cur.byID)+len(orders)),
		version:     cur.version + 1,
		refreshedAt: cur.refreshedAt,
	}
	for id, o := range cur.byID {
		next.byID[id] = o
	}
	for _, o := range orders {
		if o == nil {
			continue
		}
		if _, exists := next.byID[o.ID()]; !exists {
			next.ids = append(next.ids, o.ID())
		}
		next.byID[o.ID()] = o
	}
	l.snap.Store(next)
}

// Replace swaps the whole list for orders.
func (l *List) Replace(orders []*order.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.snap.Load()
	next := &listSnapshot{
		ids:         make([]string, 0, len(orders)),
		byID:        make(map[string]*order.Order, len(orders)),
		version:     cur.version + 1,
		refreshedAt: time.Now(),
	}
	for _, o := range orders {
		if o == nil {
			continue
		}
		if _, dup := next.byID[o.ID()]; !dup {
			next.ids = append(next.ids, o.ID())
		}
		next.byID[o.ID()] = o
	}
	l.snap.Store(next)
}

// Refresh refetches the unfiltered list and replaces the local copy.
func (l *List) Refresh(ctx context.Context) error {
	orders, err := l.source.List(ctx, ports.ListFilters{})
	if err != nil {
		l.logger.Warn("list refetch failed", zap.Error(err))
		return err
	}
	l.Replace(orders)
	l.logger.Debug("list refetched", zap.Int("orders", len(orders)))
	return nil
}
