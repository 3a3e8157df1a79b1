package commands

import (
	"context"

	"orderdesk/internal/core/application/bulk"
)

// ChangeOrdersStatusCommandHandler starts a bulk status change.
// The returned ticket is undoable until its undo window closes.
type ChangeOrdersStatusCommandHandler struct {
	actions BulkActions
}

func NewChangeOrdersStatusCommandHandler(actions BulkActions) ChangeOrdersStatusCommandHandler {
	return ChangeOrdersStatusCommandHandler{actions: actions}
}

// Handle validates the command and starts the bulk action.
func (h ChangeOrdersStatusCommandHandler) Handle(
	ctx context.Context,
	command ChangeOrdersStatusCommand,
) (*bulk.Ticket, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return h.actions.ChangeStatus(ctx, command.OrderIDs(), command.Status(), command.Metadata())
}
