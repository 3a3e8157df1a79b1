package order_test

import (
	"fmt"
	"testing"
	"time"

	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Attributes{
		ID:     "ord-1",
		Status: status,
		Type:   order.TypeErrand,
		Source: order.SourceShein,
		History: []order.HistoryEntry{{
			Status:    status,
			ChangedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			ChangedBy: "system",
		}},
	})
	require.NoError(t, err)
	return o
}

func fullMetadata() order.Metadata {
	return order.Metadata{
		ChangedBy:       "admin-1",
		Reason:          "returned by customer",
		ExternalOrderNo: "SH-99812",
		InvoiceURL:      "https://invoices.example/SH-99812.pdf",
		At:              time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestApply_LegalityTableProperty(t *testing.T) {
	for _, from := range order.AllStatuses() {
		for _, to := range order.AllStatuses() {
			t.Run(fmt.Sprintf("%s->%s", from, to), func(t *testing.T) {
				current := orderIn(t, from)
				before := current.History()

				next, err := order.Apply(current, to, fullMetadata())

				if order.CanTransition(from, to) {
					require.NoError(t, err)
					assert.Equal(t, to, next.Status())
					assert.Len(t, next.History(), len(before)+1)
					assert.Equal(t, to, next.LastChange().Status)
				} else {
					require.ErrorIs(t, err, order.ErrInvalidTransition)
					assert.Nil(t, next)
				}

				assert.Equal(t, from, current.Status(), "input must never be mutated")
				assert.Equal(t, before, current.History())
			})
		}
	}
}

func TestCanTransition(t *testing.T) {
	t.Run("terminal states admit nothing", func(t *testing.T) {
		for _, s := range []order.Status{order.Delivered, order.Returned, order.Cancelled, order.ProcurementFailed} {
			assert.True(t, s.IsTerminal())
			assert.Empty(t, order.Targets(s), "%s must be terminal", s)
		}
	})

	t.Run("admin jumps from non-terminal states", func(t *testing.T) {
		for _, from := range []order.Status{
			order.PendingConfirmation, order.UnderReview, order.Preparing,
			order.Assigned, order.OutForDelivery, order.Procured,
		} {
			for _, to := range []order.Status{order.OutForDelivery, order.Delivered, order.Returned, order.Cancelled} {
				if from == to {
					continue
				}
				assert.True(t, order.CanTransition(from, to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("no self transitions", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			assert.False(t, order.CanTransition(s, s), s.String())
		}
	})

	t.Run("procurement sub-flow", func(t *testing.T) {
		assert.Equal(t,
			[]order.Status{order.Cancelled, order.Procured, order.ProcurementFailed},
			order.Targets(order.AwaitingProcurement))
		assert.False(t, order.CanTransition(order.AwaitingProcurement, order.Delivered))
		assert.False(t, order.CanTransition(order.Preparing, order.AwaitingProcurement))
	})

	t.Run("unknown status is isolated", func(t *testing.T) {
		assert.False(t, order.CanTransition(order.Unknown, order.Preparing))
		assert.Empty(t, order.Targets(order.Unknown))
	})
}

func TestApply_RecordsMetadata(t *testing.T) {
	t.Run("cancel records reason and actor", func(t *testing.T) {
		meta := order.Metadata{ChangedBy: "admin-9", Reason: "returned by customer"}

		next, err := order.Apply(orderIn(t, order.Preparing), order.Cancelled, meta)

		require.NoError(t, err)
		last := next.LastChange()
		assert.Equal(t, order.Cancelled, last.Status)
		assert.Equal(t, "admin-9", last.ChangedBy)
		assert.Equal(t, "returned by customer", last.Reason)
		assert.False(t, last.ChangedAt.IsZero())
		assert.Equal(t, "admin-9", meta.ReturnBy(order.Cancelled))
		assert.Empty(t, meta.ReturnBy(order.Delivered))
	})

	t.Run("procured stores external references", func(t *testing.T) {
		next, err := order.Apply(orderIn(t, order.AwaitingProcurement), order.Procured, fullMetadata())

		require.NoError(t, err)
		assert.Equal(t, "SH-99812", next.ExternalOrderNo())
		assert.Equal(t, "https://invoices.example/SH-99812.pdf", next.InvoiceURL())
	})
}

func TestApply_RequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		target order.Status
		meta   order.Metadata
		param  string
	}{
		{"cancel without reason", order.Cancelled, order.Metadata{ChangedBy: "a"}, "reason"},
		{"return without reason", order.Returned, order.Metadata{ChangedBy: "a"}, "reason"},
		{"procured without external number", order.Procured, order.Metadata{ChangedBy: "a"}, "externalOrderNo"},
		{"deliver without actor", order.Delivered, order.Metadata{}, "changedBy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from := order.Preparing
			if tc.target == order.Procured {
				from = order.AwaitingProcurement
			}

			next, err := order.Apply(orderIn(t, from), tc.target, tc.meta)

			require.ErrorIs(t, err, errs.ErrValueIsRequired)
			assert.Contains(t, err.Error(), tc.param)
			assert.Nil(t, next)
		})
	}
}

func TestApply_ProcurementRequiresSheinErrand(t *testing.T) {
	o, err := order.RestoreOrder(order.Attributes{
		ID:      "ord-2",
		Status:  order.UnderReview,
		Type:    order.TypeMarketplace,
		History: []order.HistoryEntry{{Status: order.UnderReview}},
	})
	require.NoError(t, err)

	_, err = order.Apply(o, order.AwaitingProcurement, fullMetadata())

	var invalid *order.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "ord-2", invalid.OrderID)
	assert.Contains(t, err.Error(), "shein")
}

func TestApply_ZeroValueOrder(t *testing.T) {
	_, err := order.Apply(&order.Order{}, order.Delivered, fullMetadata())

	require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
}

func TestApplySub(t *testing.T) {
	sub, err := order.RestoreSubOrder("sub-1", order.Preparing, "", nil,
		[]order.HistoryEntry{{Status: order.Preparing}})
	require.NoError(t, err)
	o, err := order.RestoreOrder(order.Attributes{
		ID:        "ord-3",
		Status:    order.Preparing,
		Type:      order.TypeMarketplace,
		History:   []order.HistoryEntry{{Status: order.Preparing}},
		SubOrders: []*order.SubOrder{sub},
	})
	require.NoError(t, err)

	t.Run("moves only the sub-order", func(t *testing.T) {
		next, err := order.ApplySub(o, "sub-1", order.OutForDelivery, fullMetadata())

		require.NoError(t, err)
		moved, ok := next.SubOrder("sub-1")
		require.True(t, ok)
		assert.Equal(t, order.OutForDelivery, moved.Status())
		assert.Len(t, moved.History(), 2)
		assert.Equal(t, order.Preparing, next.Status())

		original, _ := o.SubOrder("sub-1")
		assert.Equal(t, order.Preparing, original.Status())
	})

	t.Run("rejects procurement targets", func(t *testing.T) {
		_, err := order.ApplySub(o, "sub-1", order.AwaitingProcurement, fullMetadata())

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "sub-order sub-1")
	})

	t.Run("unknown sub-order", func(t *testing.T) {
		_, err := order.ApplySub(o, "sub-404", order.Delivered, fullMetadata())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
