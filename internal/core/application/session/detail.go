package session

import (
	"context"

	"orderdesk/internal/core/domain/model/order"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// DetailView is an open detail page. While open, events about its order
// refetch its snapshot.
type DetailView struct {
	orderID string
	session *Session
	closed  atomic.Bool
}

// OpenDetail loads orderID and subscribes to its room.
func (s *Session) OpenDetail(ctx context.Context, orderID string) (*DetailView, error) {
	s.details.Track(orderID)
	if err := s.reconciler.SubscribeDetail(ctx, orderID); err != nil {
		s.details.Untrack(orderID)
		return nil, err
	}

	dv := &DetailView{orderID: orderID, session: s}
	if err := s.details.Refresh(ctx, orderID); err != nil {
		_ = dv.Close(ctx)
		return nil, err
	}
	return dv, nil
}

// OrderID returns the viewed order id.
func (d *DetailView) OrderID() string { return d.orderID }

// Order returns the current snapshot.
func (d *DetailView) Order() (*order.Order, bool) {
	if d.closed.Load() {
		return nil, false
	}
	return d.session.details.Get(d.orderID)
}

// Close leaves the order's room before returning. Closing twice is a no-op.
func (d *DetailView) Close(ctx context.Context) error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	d.session.details.Untrack(d.orderID)
	if err := d.session.reconciler.UnsubscribeDetail(ctx, d.orderID); err != nil {
		d.session.logger.Warn("detail close could not leave room", zap.String("orderId", d.orderID), zap.Error(err))
		return err
	}
	return nil
}
