package order

import (
	"errors"
	"fmt"
	"time"

	"orderdesk/internal/pkg/errs"
)

// HistoryEntry is one append-only record of a status change.
type HistoryEntry struct {
	Status    Status
	ChangedAt time.Time
	ChangedBy string
	Reason    string
}

// Visibility controls who can read a note.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
)

// Note is a free-text remark attached to an order.
type Note struct {
	ID         string
	Body       string
	Visibility Visibility
	Author     string
	CreatedAt  time.Time
}

// Validate checks the note's mandatory fields and visibility.
func (n Note) Validate() error {
	var problems []error
	if n.ID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("noteId"))
	}
	if n.Body == "" {
		problems = append(problems, errs.NewValueIsRequiredError("body"))
	}
	if n.Visibility != VisibilityPublic && n.Visibility != VisibilityInternal {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"visibility", fmt.Errorf("%q is not a valid visibility", string(n.Visibility))))
	}
	return errors.Join(problems...)
}
