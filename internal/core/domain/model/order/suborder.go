package order

import (
	"errors"
	"slices"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
)

// ErrSubOrderIsNotConstructed is returned when a SubOrder was not created through its constructors.
var ErrSubOrderIsNotConstructed = errors.New("SubOrder must be created via NewSubOrder or RestoreSubOrder constructor")

// SubOrder is a per-store (or per-utility-leg) fulfillment unit of an Order.
// It has its own status and history; its status may lag the parent's.
type SubOrder struct {
	id       string
	status   Status
	driverID string
	origin   *kernel.GeoPoint
	history  []HistoryEntry

	isConstructed bool
}

// NewSubOrder creates a sub-order in PendingConfirmation.
func NewSubOrder(id string, origin *kernel.GeoPoint, createdBy string, createdAt time.Time) (*SubOrder, error) {
	return RestoreSubOrder(id, PendingConfirmation, "", origin, []HistoryEntry{{
		Status:    PendingConfirmation,
		ChangedAt: createdAt.UTC(),
		ChangedBy: createdBy,
	}})
}

// RestoreSubOrder rebuilds a sub-order from its full state.
func RestoreSubOrder(
	id string,
	status Status,
	driverID string,
	origin *kernel.GeoPoint,
	history []HistoryEntry,
) (*SubOrder, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("subOrderId")
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := validateHistory(status, history); err != nil {
		return nil, err
	}
	if origin != nil {
		if err := origin.Validate(); err != nil {
			return nil, err
		}
		copied := *origin
		origin = &copied
	}

	return &SubOrder{
		id:            id,
		status:        status,
		driverID:      driverID,
		origin:        origin,
		history:       slices.Clone(history),
		isConstructed: true,
	}, nil
}

// Validate ensures the sub-order was properly constructed.
func (s *SubOrder) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSubOrderIsNotConstructed
	}
	return nil
}

// ID returns the sub-order identifier.
func (s *SubOrder) ID() string { return s.id }

// Status returns the sub-order status.
func (s *SubOrder) Status() Status { return s.status }

// DriverID returns the driver assigned to this leg, or "".
func (s *SubOrder) DriverID() string { return s.driverID }

// Origin returns the pickup point for utility legs.
func (s *SubOrder) Origin() (kernel.GeoPoint, bool) {
	if s.origin == nil {
		return kernel.GeoPoint{}, false
	}
	return *s.origin, true
}

// History returns a copy of the sub-order's status history.
func (s *SubOrder) History() []HistoryEntry { return slices.Clone(s.history) }

func (s *SubOrder) record(entry HistoryEntry) {
	s.status = entry.Status
	s.history = append(s.history, entry)
}

func (s *SubOrder) clone() *SubOrder {
	c := *s
	c.history = slices.Clone(s.history)
	if s.origin != nil {
		origin := *s.origin
		c.origin = &origin
	}
	return &c
}
