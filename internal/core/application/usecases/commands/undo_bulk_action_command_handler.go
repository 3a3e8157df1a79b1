package commands

import (
	"context"

	"orderdesk/internal/core/application/bulk"
)

// UndoBulkActionCommandHandler undoes a bulk action.
//
// Example:
//
//	cmd, _ := NewUndoBulkActionCommand(ticketID)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, bulk.ErrUndoUnavailable):
//	    log.Println("undo window closed")
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    log.Println("unknown ticket")
//	case err != nil:
//	    return err
//	default:
//	    log.Printf("reverted %d orders", len(result.Compensated))
//	}
type UndoBulkActionCommandHandler struct {
	actions BulkActions
}

func NewUndoBulkActionCommandHandler(actions BulkActions) UndoBulkActionCommandHandler {
	return UndoBulkActionCommandHandler{actions: actions}
}

// Handle validates the command and undoes the action.
func (h UndoBulkActionCommandHandler) Handle(ctx context.Context, command UndoBulkActionCommand) (bulk.Result, error) {
	if err := command.Validate(); err != nil {
		return bulk.Result{}, err
	}
	return h.actions.Undo(ctx, command.TicketID().String())
}
