package commands

import (
	"context"

	"orderdesk/internal/core/domain/model/order"
)

// NoteWriter stores notes on the backend. The backend announces the change
// with a note-added event, which refreshes every desk showing the order.
type NoteWriter interface {
	AddNote(ctx context.Context, orderID string, note order.Note) error
}

// AddNoteCommandHandler adds a note to an order. Notes are not undoable.
type AddNoteCommandHandler struct {
	writer NoteWriter
}

func NewAddNoteCommandHandler(writer NoteWriter) AddNoteCommandHandler {
	return AddNoteCommandHandler{writer: writer}
}

// Handle validates the command and stores the note. It returns the stored note.
func (h AddNoteCommandHandler) Handle(ctx context.Context, command AddNoteCommand) (order.Note, error) {
	if err := command.Validate(); err != nil {
		return order.Note{}, err
	}
	note := command.Note()
	if err := h.writer.AddNote(ctx, command.OrderID(), note); err != nil {
		return order.Note{}, err
	}
	return note, nil
}
