package queries

import (
	"errors"

	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order. Internal notes are left out unless asked for.
type GetOrderQuery struct {
	orderID         string
	includeInternal bool

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID string, includeInternalNotes bool) (GetOrderQuery, error) {
	if orderID == "" {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("orderId")
	}
	return GetOrderQuery{
		orderID:         orderID,
		includeInternal: includeInternalNotes,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() string { return q.orderID }

func (q GetOrderQuery) IncludeInternalNotes() bool { return q.includeInternal }
