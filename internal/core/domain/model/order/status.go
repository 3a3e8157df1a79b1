package order

import (
	"fmt"

	"orderdesk/internal/pkg/errs"
)

// Status represents the lifecycle state of an order or sub-order.
//
// Main delivery flow (admins may jump forward or sideways, see CanTransition):
//
//	PendingConfirmation ──> UnderReview ──> Preparing ──> Assigned ──> OutForDelivery ──> Delivered
//	         │                   │                                            │
//	         └───────────────────┴──────────> Returned | Cancelled <──────────┘
//
// Procurement sub-flow (errand orders from SHEIN only):
//
//	AwaitingProcurement ──┬──> Procured ──> (main flow)
//	                      └──> ProcurementFailed
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingConfirmation is the initial status of a freshly placed order.
	PendingConfirmation

	// UnderReview marks an order an admin is checking before preparation.
	UnderReview

	// Preparing indicates the store is preparing the order.
	Preparing

	// Assigned indicates a driver has been assigned.
	Assigned

	// OutForDelivery indicates the driver picked the order up.
	OutForDelivery

	// Delivered is terminal: the customer received the order.
	Delivered

	// Returned is terminal: the order came back to the store.
	Returned

	// Cancelled is terminal: the order was cancelled.
	Cancelled

	// AwaitingProcurement indicates an errand order waits for the item to be bought externally.
	AwaitingProcurement

	// Procured indicates the external purchase succeeded.
	Procured

	// ProcurementFailed is terminal: the external purchase could not be made.
	ProcurementFailed
)

var statusNames = map[Status]string{
	PendingConfirmation: "pending_confirmation",
	UnderReview:         "under_review",
	Preparing:           "preparing",
	Assigned:            "assigned",
	OutForDelivery:      "out_for_delivery",
	Delivered:           "delivered",
	Returned:            "returned",
	Cancelled:           "cancelled",
	AwaitingProcurement: "awaiting_procurement",
	Procured:            "procured",
	ProcurementFailed:   "procurement_failed",
}

// AllStatuses returns every valid status in declaration order.
func AllStatuses() []Status {
	return []Status{
		PendingConfirmation, UnderReview, Preparing, Assigned, OutForDelivery,
		Delivered, Returned, Cancelled, AwaitingProcurement, Procured, ProcurementFailed,
	}
}

// ParseStatus converts the wire name of a status (e.g. "out_for_delivery") into a Status.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the declared states.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the status by its wire name.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a wire name.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsTerminal reports whether admins can no longer move the order out of this status.
func (s Status) IsTerminal() bool {
	switch s { //nolint:exhaustive // only terminal states are listed
	case Delivered, Returned, Cancelled, ProcurementFailed:
		return true
	default:
		return false
	}
}

// IsProcurement reports whether the status belongs to the procurement sub-flow.
func (s Status) IsProcurement() bool {
	return s == AwaitingProcurement || s == Procured || s == ProcurementFailed
}

// RequiresReason reports whether moving into this status needs a reason.
func (s Status) RequiresReason() bool {
	return s == Returned || s == Cancelled || s == ProcurementFailed
}

// TagsReturnBy reports whether moving into this status records the acting admin as returnBy.
func (s Status) TagsReturnBy() bool {
	return s == Returned || s == Cancelled
}
