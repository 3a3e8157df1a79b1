package bulk_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

type call struct {
	Method   string
	OrderID  string
	SubID    string
	Status   order.Status
	Reason   string
	ReturnBy string
	Driver   string
}

// fakeBackend is an in-memory OrderRemoteAPI. It accepts any status it is sent.
type fakeBackend struct {
	mu     sync.Mutex
	orders map[string]*order.Order
	ids    []string
	calls  []call
	lists  int
	// listErr fails every List call once set.
	listErr error

	fail    map[string]error
	block   map[string]bool
	settled chan string
}

func newBackend(t *testing.T, n int, status order.Status) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		orders:  map[string]*order.Order{},
		fail:    map[string]error{},
		block:   map[string]bool{},
		settled: make(chan string, 64),
	}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("ord-%d", i)
		sub, err := order.RestoreSubOrder("sub-1", status, "", nil, []order.HistoryEntry{{Status: status}})
		require.NoError(t, err)
		o, err := order.RestoreOrder(order.Attributes{
			ID:        id,
			Status:    status,
			Type:      order.TypeErrand,
			Source:    order.SourceShein,
			DriverID:  "drv-old",
			History:   []order.HistoryEntry{{Status: status, ChangedBy: "system"}},
			SubOrders: []*order.SubOrder{sub},
		})
		require.NoError(t, err)
		b.orders[id] = o
		b.ids = append(b.ids, id)
	}
	return b
}

func (b *fakeBackend) allIDs() []string { return append([]string(nil), b.ids...) }

func (b *fakeBackend) status(id string) order.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.orders[id].Status()
}

func (b *fakeBackend) callsFor(method string) []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []call
	for _, c := range b.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (b *fakeBackend) failLists(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listErr = err
}

func (b *fakeBackend) listCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lists
}

// gate records the call and applies the failure or blocking hook for id.
func (b *fakeBackend) gate(ctx context.Context, c call) error {
	b.mu.Lock()
	b.calls = append(b.calls, c)
	failErr, blocked := b.fail[c.OrderID], b.block[c.OrderID]
	b.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return ctx.Err()
	}
	if failErr != nil {
		return failErr
	}
	return nil
}

func (b *fakeBackend) update(id string, fn func(*order.Order) (*order.Order, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	current, ok := b.orders[id]
	if !ok {
		return errs.NewObjectNotFoundError("orderId", id)
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	b.orders[id] = next
	return nil
}

func (b *fakeBackend) ChangeStatus(ctx context.Context, id string, change ports.StatusChange) error {
	c := call{Method: "ChangeStatus", OrderID: id, Status: change.Status, Reason: change.Reason, ReturnBy: change.ReturnBy}
	if err := b.gate(ctx, c); err != nil {
		return err
	}
	err := b.update(id, func(o *order.Order) (*order.Order, error) {
		return o.Recorded(order.HistoryEntry{Status: change.Status, ChangedBy: change.ChangedBy, Reason: change.Reason}), nil
	})
	b.settled <- id
	return err
}

func (b *fakeBackend) AssignDriver(ctx context.Context, id, driverID string) error {
	if err := b.gate(ctx, call{Method: "AssignDriver", OrderID: id, Driver: driverID}); err != nil {
		return err
	}
	return b.update(id, func(o *order.Order) (*order.Order, error) { return o.WithDriver(driverID), nil })
}

func (b *fakeBackend) ChangeSubStatus(ctx context.Context, id, subID string, change ports.StatusChange) error {
	if err := b.gate(ctx, call{Method: "ChangeSubStatus", OrderID: id, SubID: subID, Status: change.Status, Reason: change.Reason}); err != nil {
		return err
	}
	return b.update(id, func(o *order.Order) (*order.Order, error) {
		return o.RecordedSub(subID, order.HistoryEntry{Status: change.Status, ChangedBy: change.ChangedBy})
	})
}

func (b *fakeBackend) MarkProcured(ctx context.Context, id string, p ports.Procurement) error {
	if err := b.gate(ctx, call{Method: "MarkProcured", OrderID: id, Status: order.Procured}); err != nil {
		return err
	}
	return b.update(id, func(o *order.Order) (*order.Order, error) {
		return o.Recorded(order.HistoryEntry{Status: order.Procured, ChangedBy: p.ChangedBy}).
			WithProcurement(p.ExternalOrderNo, p.InvoiceURL), nil
	})
}

func (b *fakeBackend) FailProcurement(ctx context.Context, id string, f ports.ProcurementFailure) error {
	if err := b.gate(ctx, call{Method: "FailProcurement", OrderID: id, Status: order.ProcurementFailed, Reason: f.Reason}); err != nil {
		return err
	}
	return b.update(id, func(o *order.Order) (*order.Order, error) {
		return o.Recorded(order.HistoryEntry{Status: order.ProcurementFailed, Reason: f.Reason}), nil
	})
}

func (b *fakeBackend) Fetch(_ context.Context, id string) (*order.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return o, nil
}

func (b *fakeBackend) List(_ context.Context, _ ports.ListFilters) ([]*order.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lists++
	if b.listErr != nil {
		return nil, b.listErr
	}
	out := make([]*order.Order, 0, len(b.ids))
	for _, id := range b.ids {
		out = append(out, b.orders[id])
	}
	return out, nil
}

func waitSettled(t *testing.T, b *fakeBackend, id string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-b.settled:
			if got == id {
				return
			}
		case <-deadline:
			t.Fatalf("order %s was never accepted by the backend", id)
		}
	}
}
