package order

import (
	"errors"
	"fmt"
	"time"

	"orderdesk/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel wrapped by every InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid status transition")

// InvalidTransitionError reports a target status that is not legal from the current one.
// It is a local validation failure: no remote call may follow it.
type InvalidTransitionError struct {
	OrderID    string
	SubOrderID string
	From       Status
	To         Status
	Detail     string
}

func (e *InvalidTransitionError) Error() string {
	subject := "order " + e.OrderID
	if e.SubOrderID != "" {
		subject += " sub-order " + e.SubOrderID
	}
	msg := fmt.Sprintf("%s: %s: %s -> %s", ErrInvalidTransition, subject, e.From, e.To)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// adminJumps are the targets reachable from most non-terminal states.
var adminJumps = []Status{Preparing, OutForDelivery, Delivered, Returned, Cancelled}

var legalTransitions = buildLegalTransitions()

func buildLegalTransitions() map[Status]map[Status]struct{} {
	table := make(map[Status]map[Status]struct{})
	allow := func(from Status, targets ...Status) {
		if table[from] == nil {
			table[from] = make(map[Status]struct{})
		}
		for _, to := range targets {
			if to != from {
				table[from][to] = struct{}{}
			}
		}
	}

	for _, s := range AllStatuses() {
		if s.IsTerminal() || s == AwaitingProcurement {
			continue
		}
		allow(s, adminJumps...)
	}

	allow(PendingConfirmation, UnderReview, AwaitingProcurement)
	allow(UnderReview, Assigned, AwaitingProcurement)
	allow(Preparing, Assigned)
	allow(AwaitingProcurement, Procured, ProcurementFailed, Cancelled)

	return table
}

// CanTransition reports whether an admin may move an order from current to target.
// The table is intentionally permissive; it never admits a terminal status back
// into the flow and never allows a self-transition.
func CanTransition(current, target Status) bool {
	_, ok := legalTransitions[current][target]
	return ok
}

// Targets lists the statuses reachable from current, in declaration order.
func Targets(current Status) []Status {
	out := make([]Status, 0, len(legalTransitions[current]))
	for _, s := range AllStatuses() {
		if CanTransition(current, s) {
			out = append(out, s)
		}
	}
	return out
}

// Metadata carries who performed a transition and the fields some targets require.
type Metadata struct {
	// ChangedBy is the acting admin's identity.
	ChangedBy string

	// Reason is required for Returned, Cancelled and ProcurementFailed.
	Reason string

	// ExternalOrderNo is required for Procured.
	ExternalOrderNo string

	// InvoiceURL is optional for Procured.
	InvoiceURL string

	// At is the transition time; zero means now.
	At time.Time
}

// ValidateFor checks the required-field contract of target.
func (m Metadata) ValidateFor(target Status) error {
	var problems []error
	if m.ChangedBy == "" {
		problems = append(problems, errs.NewValueIsRequiredError("changedBy"))
	}
	if target.RequiresReason() && m.Reason == "" {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause(
			"reason", fmt.Errorf("%s requires a reason", target)))
	}
	if target == Procured && m.ExternalOrderNo == "" {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause(
			"externalOrderNo", fmt.Errorf("%s requires an external order number", target)))
	}
	return errors.Join(problems...)
}

// ReturnBy returns the admin to tag as returnBy for target, or "" when target does not tag one.
func (m Metadata) ReturnBy(target Status) string {
	if target.TagsReturnBy() {
		return m.ChangedBy
	}
	return ""
}

func (m Metadata) entry(target Status) HistoryEntry {
	at := m.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return HistoryEntry{
		Status:    target,
		ChangedAt: at,
		ChangedBy: m.ChangedBy,
		Reason:    m.Reason,
	}
}

// Apply returns a copy of o moved to target with one history entry appended.
// o is never modified. It fails with an InvalidTransitionError when target is not
// legal from the current status or when a procurement target is requested for an
// order outside the procurement sub-flow, and with errs.ErrValueIsRequired when
// metadata misses a field target requires.
//
// Example:
//
//	next, err := order.Apply(current, order.Cancelled, order.Metadata{
//	    ChangedBy: "admin-7",
//	    Reason:    "returned by customer",
//	})
//	if errors.Is(err, order.ErrInvalidTransition) {
//	    // skip this order, nothing was sent
//	}
func Apply(o *Order, target Status, meta Metadata) (*Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if !CanTransition(o.status, target) {
		return nil, &InvalidTransitionError{OrderID: o.id, From: o.status, To: target}
	}
	if target.IsProcurement() && !o.InProcurementFlow() {
		return nil, &InvalidTransitionError{
			OrderID: o.id,
			From:    o.status,
			To:      target,
			Detail:  "procurement applies only to errand orders from shein",
		}
	}
	if err := meta.ValidateFor(target); err != nil {
		return nil, err
	}

	next := o.Clone()
	next.record(meta.entry(target))
	if target == Procured {
		next.externalOrderNo = meta.ExternalOrderNo
		next.invoiceURL = meta.InvoiceURL
	}
	return next, nil
}

// ApplySub returns a copy of o whose sub-order subID moved to target.
// The parent status is left untouched; cross-entity ordering is owned by the server.
func ApplySub(o *Order, subID string, target Status, meta Metadata) (*Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	idx := o.subOrderIndex(subID)
	if idx < 0 {
		return nil, errs.NewObjectNotFoundError("subOrderId", subID)
	}

	current := o.subOrders[idx].status
	if target.IsProcurement() || !CanTransition(current, target) {
		return nil, &InvalidTransitionError{OrderID: o.id, SubOrderID: subID, From: current, To: target}
	}
	if err := meta.ValidateFor(target); err != nil {
		return nil, err
	}

	next := o.Clone()
	next.subOrders[idx].record(meta.entry(target))
	return next, nil
}
