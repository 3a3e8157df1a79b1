package queries

import (
	"context"

	"orderdesk/internal/core/domain/model/order"
)

// OrderReader returns the freshest copy of one order.
type OrderReader interface {
	Order(ctx context.Context, orderID string) (*order.Order, error)
}

// GetOrderQueryHandler builds the detail projection of one order, including
// the statuses the admin may move it to next.
type GetOrderQueryHandler struct {
	reader OrderReader
}

func NewGetOrderQueryHandler(reader OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderDetails, error) {
	if err := query.Validate(); err != nil {
		return OrderDetails{}, err
	}

	o, err := h.reader.Order(ctx, query.OrderID())
	if err != nil {
		return OrderDetails{}, err
	}

	details := OrderDetails{
		OrderSummary:    summarize(o),
		ExternalOrderNo: o.ExternalOrderNo(),
		InvoiceURL:      o.InvoiceURL(),
		History:         historyItems(o.History()),
		AllowedTargets:  make([]string, 0),
		SubOrderItems:   make([]SubOrderItem, 0),
		Notes:           make([]NoteItem, 0),
	}

	for _, s := range order.Targets(o.Status()) {
		if s.IsProcurement() && !o.InProcurementFlow() {
			continue
		}
		details.AllowedTargets = append(details.AllowedTargets, s.String())
	}

	for _, sub := range o.SubOrders() {
		item := SubOrderItem{
			ID:       sub.ID(),
			Status:   sub.Status().String(),
			DriverID: sub.DriverID(),
			History:  historyItems(sub.History()),
		}
		if origin, ok := sub.Origin(); ok {
			item.Origin = origin.String()
		}
		details.SubOrderItems = append(details.SubOrderItems, item)
	}

	visibility := []order.Visibility{order.VisibilityPublic}
	if query.IncludeInternalNotes() {
		visibility = append(visibility, order.VisibilityInternal)
	}
	for _, n := range o.Notes(visibility...) {
		details.Notes = append(details.Notes, NoteItem{
			ID:         n.ID,
			Body:       n.Body,
			Visibility: string(n.Visibility),
			Author:     n.Author,
			CreatedAt:  n.CreatedAt,
		})
	}

	return details, nil
}
