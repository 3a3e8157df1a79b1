package queries

import (
	"context"

	"orderdesk/internal/core/domain/model/order"
)

// OrderLister exposes the session's unfiltered order list.
type OrderLister interface {
	List() []*order.Order
}

// ListOrdersQueryHandler filters the local list. It never calls the backend;
// the list is kept fresh by realtime events and the polling fallback.
type ListOrdersQueryHandler struct {
	lister OrderLister
}

func NewListOrdersQueryHandler(lister OrderLister) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{lister: lister}
}

// Handle returns the matching rows in list order.
func (h ListOrdersQueryHandler) Handle(_ context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows := make([]OrderSummary, 0)
	for _, o := range h.lister.List() {
		if !query.Matches(o) {
			continue
		}
		rows = append(rows, summarize(o))
		if query.Limit() > 0 && len(rows) == query.Limit() {
			break
		}
	}
	return rows, nil
}
