package commands

import (
	"errors"

	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand assigns one driver to a selection of orders.
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	orderIDs []string
	driverID string

	guard guard.ConstructorGuard
}

// NewAssignDriverCommand validates and builds the command.
func NewAssignDriverCommand(orderIDs []string, driverID string) (AssignDriverCommand, error) {
	cmd := AssignDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setOrderIDs(&cmd.orderIDs, orderIDs),
		cmd.setDriverID(driverID),
	); err != nil {
		return AssignDriverCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

// OrderIDs returns the selected orders.
func (c AssignDriverCommand) OrderIDs() []string { return append([]string(nil), c.orderIDs...) }

// DriverID returns the driver to assign.
func (c AssignDriverCommand) DriverID() string { return c.driverID }

func (c *AssignDriverCommand) setDriverID(driverID string) error {
	if driverID == "" {
		return errs.NewValueIsRequiredError("driverId")
	}

	c.driverID = driverID
	return nil
}
