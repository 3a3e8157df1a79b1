// Package commands contains the admin desk's write operations.
// Every command is built through its constructor, which validates the input,
// and is handled by a handler that hands it to the desk session.
package commands

import (
	"context"
	"errors"

	"orderdesk/internal/core/application/bulk"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"
)

// ErrBlankOrderID is the cause reported for an empty id in a selection.
var ErrBlankOrderID = errors.New("order id must not be blank")

// BulkActions is the part of a desk session that mutates orders.
type BulkActions interface {
	ChangeStatus(ctx context.Context, orderIDs []string, target order.Status, meta order.Metadata) (*bulk.Ticket, error)
	AssignDriver(ctx context.Context, orderIDs []string, driverID string) (*bulk.Ticket, error)
	ChangeSubStatus(
		ctx context.Context,
		orderID, subID string,
		target order.Status,
		meta order.Metadata,
	) (*bulk.Ticket, error)
	Undo(ctx context.Context, ticketID string) (bulk.Result, error)
}

// setOrderIDs copies a selection. An empty selection is valid and settles as a no-op.
func setOrderIDs(dst *[]string, orderIDs []string) error {
	for _, id := range orderIDs {
		if id == "" {
			return errs.NewValueIsInvalidErrorWithCause("orderIds", ErrBlankOrderID)
		}
	}
	*dst = append([]string{}, orderIDs...)
	return nil
}
