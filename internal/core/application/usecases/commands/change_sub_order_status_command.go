package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrChangeSubOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeSubOrderStatusCommand must be created via NewChangeSubOrderStatusCommand constructor",
)

// ChangeSubOrderStatusCommand moves one sub-order of an order.
// Procurement statuses apply to whole errands only and are rejected.
type ChangeSubOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID string
	subID   string
	status  order.Status
	meta    order.Metadata

	guard guard.ConstructorGuard
}

// NewChangeSubOrderStatusCommand validates and builds the command.
func NewChangeSubOrderStatusCommand(
	orderID, subID string,
	status order.Status,
	meta order.Metadata,
) (ChangeSubOrderStatusCommand, error) {
	cmd := ChangeSubOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIDs(orderID, subID),
		cmd.setTarget(status, meta),
	); err != nil {
		return ChangeSubOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeSubOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeSubOrderStatusCommandIsNotConstructed)
}

func (c ChangeSubOrderStatusCommand) OrderID() string { return c.orderID }

func (c ChangeSubOrderStatusCommand) SubOrderID() string { return c.subID }

func (c ChangeSubOrderStatusCommand) Status() order.Status { return c.status }

func (c ChangeSubOrderStatusCommand) Metadata() order.Metadata { return c.meta }

func (c *ChangeSubOrderStatusCommand) setIDs(orderID, subID string) error {
	var problems []error
	if orderID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("orderId"))
	}
	if subID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("subOrderId"))
	}
	if len(problems) > 0 {
		return errors.Join(problems...)
	}

	c.orderID = orderID
	c.subID = subID
	return nil
}

func (c *ChangeSubOrderStatusCommand) setTarget(status order.Status, meta order.Metadata) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status.IsProcurement() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			errors.New("procurement statuses apply to whole errands only"))
	}
	if err := meta.ValidateFor(status); err != nil {
		return err
	}

	c.status = status
	c.meta = meta
	return nil
}
