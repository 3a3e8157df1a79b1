package queries_test

import (
	"context"
	"testing"
	"time"

	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Order(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type staticLister []*order.Order

func (l staticLister) List() []*order.Order { return l }

var changedAt = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

func restore(t *testing.T, attrs order.Attributes) *order.Order {
	t.Helper()
	attrs.History = []order.HistoryEntry{{Status: attrs.Status, ChangedAt: changedAt, ChangedBy: "system"}}
	o, err := order.RestoreOrder(attrs)
	require.NoError(t, err)
	return o
}

func deskOrders(t *testing.T) staticLister {
	return staticLister{
		restore(t, order.Attributes{ID: "ord-1", Status: order.Preparing, Type: order.TypeMarketplace, DriverID: "drv-1"}),
		restore(t, order.Attributes{ID: "ord-2", Status: order.AwaitingProcurement, Type: order.TypeErrand, Source: order.SourceShein}),
		restore(t, order.Attributes{ID: "ord-3", Status: order.Preparing, Type: order.TypeErrand, Source: order.SourceOther}),
		restore(t, order.Attributes{ID: "ord-4", Status: order.Delivered, Type: order.TypeUtility, DriverID: "drv-1"}),
	}
}

func ids(rows []queries.OrderSummary) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestListOrdersQueryHandler_Handle(t *testing.T) {
	handler := queries.NewListOrdersQueryHandler(deskOrders(t))

	cases := []struct {
		name     string
		statuses []string
		typ      string
		source   string
		driver   string
		limit    int
		want     []string
	}{
		{"no filters", nil, "", "", "", 0, []string{"ord-1", "ord-2", "ord-3", "ord-4"}},
		{"by status", []string{"preparing"}, "", "", "", 0, []string{"ord-1", "ord-3"}},
		{"by type and source", nil, "errand", "shein", "", 0, []string{"ord-2"}},
		{"by driver", nil, "", "", "drv-1", 0, []string{"ord-1", "ord-4"}},
		{"limited", []string{"preparing", "delivered"}, "", "", "", 2, []string{"ord-1", "ord-3"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := queries.NewListOrdersQuery(tc.statuses, tc.typ, tc.source, tc.driver, tc.limit)
			require.NoError(t, err)

			rows, err := handler.Handle(t.Context(), query)

			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(rows))
		})
	}

	t.Run("rows carry the summary", func(t *testing.T) {
		query, err := queries.NewListOrdersQuery(nil, "", "", "drv-1", 1)
		require.NoError(t, err)

		rows, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "preparing", rows[0].Status)
		assert.Equal(t, "marketplace", rows[0].Type)
		assert.Equal(t, changedAt, rows[0].ChangedAt)
		assert.Equal(t, "system", rows[0].ChangedBy)
	})
}

func TestNewListOrdersQuery_Invalid(t *testing.T) {
	_, err := queries.NewListOrdersQuery([]string{"lost"}, "boat", "ebay", "", queries.MaxListLimit+1)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	var zero queries.ListOrdersQuery
	_, err = queries.NewListOrdersQueryHandler(staticLister{}).Handle(t.Context(), zero)
	require.ErrorIs(t, err, queries.ErrListOrdersQueryIsNotConstructed)
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	origin, err := kernel.NewLabeledGeoPoint(15.35, 44.2, "Power company")
	require.NoError(t, err)
	sub, err := order.NewSubOrder("leg-1", &origin, "system", changedAt)
	require.NoError(t, err)
	o := restore(t, order.Attributes{
		ID:        "ord-7",
		Status:    order.AwaitingProcurement,
		Type:      order.TypeErrand,
		Source:    order.SourceShein,
		Amounts:   order.Amounts{CashDue: kernel.MustMoney("12.5")},
		SubOrders: []*order.SubOrder{sub},
		Notes: []order.Note{
			{ID: "n1", Body: "call first", Visibility: order.VisibilityPublic, CreatedAt: changedAt},
			{ID: "n2", Body: "fraud check", Visibility: order.VisibilityInternal, CreatedAt: changedAt},
		},
	})

	t.Run("projects the order with its allowed targets", func(t *testing.T) {
		reader := &MockOrderReader{}
		reader.On("Order", mock.Anything, "ord-7").Return(o, nil)
		query, err := queries.NewGetOrderQuery("ord-7", false)
		require.NoError(t, err)

		details, err := queries.NewGetOrderQueryHandler(reader).Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, "ord-7", details.ID)
		assert.Equal(t, "12.50", details.CashDue)
		assert.Equal(t, []string{"cancelled", "procured", "procurement_failed"}, details.AllowedTargets)
		require.Len(t, details.SubOrderItems, 1)
		assert.Equal(t, "pending_confirmation", details.SubOrderItems[0].Status)
		assert.Contains(t, details.SubOrderItems[0].Origin, "Power company")
		require.Len(t, details.Notes, 1)
		assert.Equal(t, "n1", details.Notes[0].ID)
		require.Len(t, details.History, 1)
	})

	t.Run("includes internal notes on request", func(t *testing.T) {
		reader := &MockOrderReader{}
		reader.On("Order", mock.Anything, "ord-7").Return(o, nil)
		query, err := queries.NewGetOrderQuery("ord-7", true)
		require.NoError(t, err)

		details, err := queries.NewGetOrderQueryHandler(reader).Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Len(t, details.Notes, 2)
	})

	t.Run("propagates not found", func(t *testing.T) {
		reader := &MockOrderReader{}
		reader.On("Order", mock.Anything, "ord-404").Return(nil, errs.NewObjectNotFoundError("orderId", "ord-404"))
		query, err := queries.NewGetOrderQuery("ord-404", false)
		require.NoError(t, err)

		_, err = queries.NewGetOrderQueryHandler(reader).Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("requires an id", func(t *testing.T) {
		_, err := queries.NewGetOrderQuery("", false)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
