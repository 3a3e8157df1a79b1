package commands

import (
	"context"

	"orderdesk/internal/core/application/bulk"
)

// AssignDriverCommandHandler starts a bulk driver assignment.
type AssignDriverCommandHandler struct {
	actions BulkActions
}

func NewAssignDriverCommandHandler(actions BulkActions) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{actions: actions}
}

// Handle validates the command and starts the bulk action.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, command AssignDriverCommand) (*bulk.Ticket, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return h.actions.AssignDriver(ctx, command.OrderIDs(), command.DriverID())
}
