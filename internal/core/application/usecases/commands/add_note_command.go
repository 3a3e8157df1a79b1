package commands

import (
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrAddNoteCommandIsNotConstructed = errors.New(
	"AddNoteCommand must be created via NewAddNoteCommand constructor",
)

// AddNoteCommand attaches a note to an order. The note id is generated.
type AddNoteCommand struct { //nolint:recvcheck //using for validation
	orderID string
	note    order.Note

	guard guard.ConstructorGuard
}

// NewAddNoteCommand validates and builds the command.
func NewAddNoteCommand(orderID, body string, visibility order.Visibility, author string) (AddNoteCommand, error) {
	cmd := AddNoteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setNote(order.Note{
			ID:         kernel.NewUUID().String(),
			Body:       body,
			Visibility: visibility,
			Author:     author,
			CreatedAt:  time.Now().UTC(),
		}),
	); err != nil {
		return AddNoteCommand{}, err
	}

	return cmd, nil
}

func (c AddNoteCommand) Validate() error {
	return c.guard.Validate(ErrAddNoteCommandIsNotConstructed)
}

func (c AddNoteCommand) OrderID() string { return c.orderID }

func (c AddNoteCommand) Note() order.Note { return c.note }

func (c *AddNoteCommand) setOrderID(orderID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	c.orderID = orderID
	return nil
}

func (c *AddNoteCommand) setNote(note order.Note) error {
	if err := note.Validate(); err != nil {
		return err
	}
	c.note = note
	return nil
}
