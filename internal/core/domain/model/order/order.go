package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrHistoryOutOfSync is returned when the last history entry does not carry the current status.
	ErrHistoryOutOfSync = errors.New("status history does not end with the current status")
)

// Type distinguishes the three kinds of marketplace orders.
type Type string

const (
	TypeMarketplace Type = "marketplace"
	TypeErrand      Type = "errand"
	TypeUtility     Type = "utility"
)

// Validate checks that t is a declared order type.
func (t Type) Validate() error {
	switch t {
	case TypeMarketplace, TypeErrand, TypeUtility:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("orderType", fmt.Errorf("%q is not a valid order type", string(t)))
	}
}

// Source identifies where an errand is bought. Empty means unspecified.
type Source string

const (
	SourceNone  Source = ""
	SourceShein Source = "shein"
	SourceOther Source = "other"
)

// Validate checks that s is a declared source.
func (s Source) Validate() error {
	switch s {
	case SourceNone, SourceShein, SourceOther:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("source", fmt.Errorf("%q is not a valid source", string(s)))
	}
}

// PaymentMethod is the backend's payment method tag (cash, wallet, card, mixed...).
// The desk does not interpret it.
type PaymentMethod string

// Amounts groups the monetary fields of an order.
type Amounts struct {
	Price       kernel.Money
	DeliveryFee kernel.Money
	WalletUsed  kernel.Money
	CashDue     kernel.Money
}

// Attributes is the full state of an order, used to restore an aggregate from
// the backend or from persistence.
type Attributes struct {
	ID              string
	Status          Status
	Type            Type
	Source          Source
	PaymentMethod   PaymentMethod
	Amounts         Amounts
	DriverID        string
	ExternalOrderNo string
	InvoiceURL      string
	History         []HistoryEntry
	SubOrders       []*SubOrder
	Notes           []Note
}

// Order is the top-level customer purchase as the admin desk sees it.
//
// Order follows these invariants:
//   - Must have a non-empty opaque identifier
//   - The last status history entry carries the current status
//   - History is append-only
//   - Mutations return new values; an Order held by a caller never changes
//
// Orders are shared between goroutines by handing out clones; an *Order that
// has been published to a view must be treated as read-only.
type Order struct {
	id              string
	status          Status
	orderType       Type
	source          Source
	paymentMethod   PaymentMethod
	amounts         Amounts
	driverID        string
	externalOrderNo string
	invoiceURL      string
	history         []HistoryEntry
	subOrders       []*SubOrder
	notes           []Note

	isConstructed bool
}

// NewOrder creates an order in PendingConfirmation with its first history entry.
//
// Example:
//
//	o, err := order.NewOrder("ord-1001", order.TypeErrand, order.SourceShein, "cash",
//	    order.Amounts{Price: kernel.MustMoney("40")}, "customer-17", time.Now())
func NewOrder(
	id string,
	orderType Type,
	source Source,
	paymentMethod PaymentMethod,
	amounts Amounts,
	createdBy string,
	createdAt time.Time,
) (*Order, error) {
	return RestoreOrder(Attributes{
		ID:            id,
		Status:        PendingConfirmation,
		Type:          orderType,
		Source:        source,
		PaymentMethod: paymentMethod,
		Amounts:       amounts,
		History: []HistoryEntry{{
			Status:    PendingConfirmation,
			ChangedAt: createdAt.UTC(),
			ChangedBy: createdBy,
		}},
	})
}

// RestoreOrder rebuilds an order from its full state, validating every invariant.
// Slices in attrs are copied; the caller keeps ownership of its own.
func RestoreOrder(attrs Attributes) (*Order, error) {
	o := &Order{
		paymentMethod:   attrs.PaymentMethod,
		amounts:         attrs.Amounts,
		driverID:        attrs.DriverID,
		externalOrderNo: attrs.ExternalOrderNo,
		invoiceURL:      attrs.InvoiceURL,
		notes:           slices.Clone(attrs.Notes),
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(attrs.ID),
		o.setType(attrs.Type, attrs.Source),
		o.setStatus(attrs.Status, attrs.History),
		o.setSubOrders(attrs.SubOrders),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Clone returns a deep copy that shares no mutable state with o.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.history = slices.Clone(o.history)
	c.notes = slices.Clone(o.notes)
	c.subOrders = make([]*SubOrder, len(o.subOrders))
	for i, s := range o.subOrders {
		c.subOrders[i] = s.clone()
	}
	return &c
}

// Attributes exports the full state, for persistence and transport adapters.
func (o *Order) Attributes() Attributes {
	c := o.Clone()
	return Attributes{
		ID:              c.id,
		Status:          c.status,
		Type:            c.orderType,
		Source:          c.source,
		PaymentMethod:   c.paymentMethod,
		Amounts:         c.amounts,
		DriverID:        c.driverID,
		ExternalOrderNo: c.externalOrderNo,
		InvoiceURL:      c.invoiceURL,
		History:         c.history,
		SubOrders:       c.subOrders,
		Notes:           c.notes,
	}
}

// ID returns the backend's opaque order identifier.
func (o *Order) ID() string { return o.id }

// Status returns the current status.
func (o *Order) Status() Status { return o.status }

// Type returns the order type.
func (o *Order) Type() Type { return o.orderType }

// Source returns the errand source, if any.
func (o *Order) Source() Source { return o.source }

// PaymentMethod returns the backend's payment method tag.
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }

// Amounts returns the monetary fields.
func (o *Order) Amounts() Amounts { return o.amounts }

// DriverID returns the assigned driver or "".
func (o *Order) DriverID() string { return o.driverID }

// ExternalOrderNo returns the external purchase reference set when procured.
func (o *Order) ExternalOrderNo() string { return o.externalOrderNo }

// InvoiceURL returns the external invoice set when procured.
func (o *Order) InvoiceURL() string { return o.invoiceURL }

// History returns a copy of the status history, oldest first.
func (o *Order) History() []HistoryEntry { return slices.Clone(o.history) }

// LastChange returns the most recent history entry.
func (o *Order) LastChange() HistoryEntry { return o.history[len(o.history)-1] }

// SubOrders returns copies of the sub-orders.
func (o *Order) SubOrders() []*SubOrder {
	out := make([]*SubOrder, len(o.subOrders))
	for i, s := range o.subOrders {
		out[i] = s.clone()
	}
	return out
}

// SubOrder returns a copy of the sub-order with the given id.
func (o *Order) SubOrder(subID string) (*SubOrder, bool) {
	idx := o.subOrderIndex(subID)
	if idx < 0 {
		return nil, false
	}
	return o.subOrders[idx].clone(), true
}

// Notes returns notes filtered by visibility; pass no argument for all notes.
func (o *Order) Notes(visibility ...Visibility) []Note {
	if len(visibility) == 0 {
		return slices.Clone(o.notes)
	}
	out := make([]Note, 0, len(o.notes))
	for _, n := range o.notes {
		if slices.Contains(visibility, n.Visibility) {
			out = append(out, n)
		}
	}
	return out
}

// InProcurementFlow reports whether the procurement sub-flow applies to this order.
func (o *Order) InProcurementFlow() bool {
	return o.orderType == TypeErrand && o.source == SourceShein
}

// Recorded returns a copy carrying status with entry appended, without legality checks.
// The backend is the source of truth and uses it to persist whatever status it accepted,
// including compensating reverts.
func (o *Order) Recorded(entry HistoryEntry) *Order {
	next := o.Clone()
	next.record(entry)
	return next
}

// RecordedSub is Recorded for a sub-order.
func (o *Order) RecordedSub(subID string, entry HistoryEntry) (*Order, error) {
	idx := o.subOrderIndex(subID)
	if idx < 0 {
		return nil, errs.NewObjectNotFoundError("subOrderId", subID)
	}
	next := o.Clone()
	next.subOrders[idx].record(entry)
	return next, nil
}

// WithDriver returns a copy assigned to driverID ("" unassigns).
func (o *Order) WithDriver(driverID string) *Order {
	next := o.Clone()
	next.driverID = driverID
	return next
}

// WithProcurement returns a copy carrying the external purchase references.
func (o *Order) WithProcurement(externalOrderNo, invoiceURL string) *Order {
	next := o.Clone()
	next.externalOrderNo = externalOrderNo
	next.invoiceURL = invoiceURL
	return next
}

// WithNote returns a copy with note appended.
func (o *Order) WithNote(note Note) (*Order, error) {
	if err := note.Validate(); err != nil {
		return nil, err
	}
	next := o.Clone()
	next.notes = append(next.notes, note)
	return next, nil
}

func (o *Order) record(entry HistoryEntry) {
	o.status = entry.Status
	o.history = append(o.history, entry)
}

func (o *Order) subOrderIndex(subID string) int {
	return slices.IndexFunc(o.subOrders, func(s *SubOrder) bool { return s.id == subID })
}

func (o *Order) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("id")
	}
	o.id = id
	return nil
}

func (o *Order) setType(orderType Type, source Source) error {
	if err := errors.Join(orderType.Validate(), source.Validate()); err != nil {
		return err
	}
	o.orderType = orderType
	o.source = source
	return nil
}

func (o *Order) setStatus(status Status, history []HistoryEntry) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := validateHistory(status, history); err != nil {
		return err
	}
	o.status = status
	o.history = slices.Clone(history)
	return nil
}

func (o *Order) setSubOrders(subOrders []*SubOrder) error {
	o.subOrders = make([]*SubOrder, 0, len(subOrders))
	seen := make(map[string]struct{}, len(subOrders))
	for _, s := range subOrders {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := seen[s.id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("subOrders", fmt.Errorf("duplicate sub-order %s", s.id))
		}
		seen[s.id] = struct{}{}
		o.subOrders = append(o.subOrders, s.clone())
	}
	return nil
}

func validateHistory(status Status, history []HistoryEntry) error {
	if len(history) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("statusHistory", ErrHistoryOutOfSync)
	}
	if last := history[len(history)-1]; last.Status != status {
		return errs.NewValueIsInvalidErrorWithCause("statusHistory",
			fmt.Errorf("%w: last entry is %s, status is %s", ErrHistoryOutOfSync, last.Status, status))
	}
	return nil
}
