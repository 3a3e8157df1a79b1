package commands

import (
	"context"

	"orderdesk/internal/core/application/bulk"
)

// ChangeSubOrderStatusCommandHandler starts a single sub-order status change.
// It is an undoable action of one, like the bulk ones.
type ChangeSubOrderStatusCommandHandler struct {
	actions BulkActions
}

func NewChangeSubOrderStatusCommandHandler(actions BulkActions) ChangeSubOrderStatusCommandHandler {
	return ChangeSubOrderStatusCommandHandler{actions: actions}
}

// Handle validates the command and starts the action.
func (h ChangeSubOrderStatusCommandHandler) Handle(
	ctx context.Context,
	command ChangeSubOrderStatusCommand,
) (*bulk.Ticket, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return h.actions.ChangeSubStatus(ctx, command.OrderID(), command.SubOrderID(), command.Status(), command.Metadata())
}
