package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/guard"
)

var ErrUndoBulkActionCommandIsNotConstructed = errors.New(
	"UndoBulkActionCommand must be created via NewUndoBulkActionCommand constructor",
)

// UndoBulkActionCommand undoes a bulk action by its ticket id.
type UndoBulkActionCommand struct { //nolint:recvcheck //using for validation
	ticketID kernel.UUID

	guard guard.ConstructorGuard
}

// NewUndoBulkActionCommand parses ticketID and builds the command.
func NewUndoBulkActionCommand(ticketID string) (UndoBulkActionCommand, error) {
	cmd := UndoBulkActionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTicketID(ticketID); err != nil {
		return UndoBulkActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UndoBulkActionCommand) Validate() error {
	return c.guard.Validate(ErrUndoBulkActionCommandIsNotConstructed)
}

// TicketID returns the ticket to undo.
func (c UndoBulkActionCommand) TicketID() kernel.UUID { return c.ticketID }

func (c *UndoBulkActionCommand) setTicketID(ticketID string) error {
	id, err := kernel.UUIDFromString(ticketID)
	if err != nil {
		return err
	}

	c.ticketID = id
	return nil
}
