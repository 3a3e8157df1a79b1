package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/guard"
)

var ErrChangeOrdersStatusCommandIsNotConstructed = errors.New(
	"ChangeOrdersStatusCommand must be created via NewChangeOrdersStatusCommand constructor",
)

// ChangeOrdersStatusCommand moves a selection of orders to one target status.
// The metadata must satisfy the target's required fields: a reason for
// cancelled, returned and procurement_failed, an external order number for procured.
//
// Example:
//
//	cmd, err := NewChangeOrdersStatusCommand([]string{"ord-1", "ord-2"}, order.Cancelled, order.Metadata{
//	    ChangedBy: "admin-1",
//	    Reason:    "customer unreachable",
//	})
//	if err != nil {
//	    return err
//	}
//	ticket, err := handler.Handle(ctx, cmd)
type ChangeOrdersStatusCommand struct { //nolint:recvcheck //using for validation
	orderIDs []string
	status   order.Status
	meta     order.Metadata

	guard guard.ConstructorGuard
}

// NewChangeOrdersStatusCommand validates and builds the command.
func NewChangeOrdersStatusCommand(
	orderIDs []string,
	status order.Status,
	meta order.Metadata,
) (ChangeOrdersStatusCommand, error) {
	cmd := ChangeOrdersStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setOrderIDs(&cmd.orderIDs, orderIDs),
		cmd.setTarget(status, meta),
	); err != nil {
		return ChangeOrdersStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrdersStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrdersStatusCommandIsNotConstructed)
}

// OrderIDs returns the selected orders.
func (c ChangeOrdersStatusCommand) OrderIDs() []string { return append([]string(nil), c.orderIDs...) }

// Status returns the target status.
func (c ChangeOrdersStatusCommand) Status() order.Status { return c.status }

// Metadata returns the change metadata.
func (c ChangeOrdersStatusCommand) Metadata() order.Metadata { return c.meta }

func (c *ChangeOrdersStatusCommand) setTarget(status order.Status, meta order.Metadata) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := meta.ValidateFor(status); err != nil {
		return err
	}

	c.status = status
	c.meta = meta
	return nil
}
