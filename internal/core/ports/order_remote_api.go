// Package ports defines the contracts between the admin desk core and the
// systems around it: the marketplace backend, the realtime push channel and
// local persistence.
package ports

import (
	"context"

	"orderdesk/internal/core/domain/model/order"
)

// StatusChange is the payload of a status mutation for an order or a sub-order.
type StatusChange struct {
	Status    order.Status
	Reason    string
	ReturnBy  string
	ChangedBy string
}

// Procurement carries the references recorded when an errand is procured.
type Procurement struct {
	ExternalOrderNo string
	InvoiceURL      string
	ChangedBy       string
}

// ProcurementFailure carries why an errand could not be procured.
type ProcurementFailure struct {
	Reason    string
	ChangedBy string
}

// ListFilters narrows List. The zero value lists everything (the unfiltered list).
type ListFilters struct {
	Statuses []order.Status
	Type     order.Type
	Source   order.Source
	DriverID string
	Limit    int
}

// OrderRemoteAPI is the marketplace backend as the desk consumes it.
// The backend is the source of truth: it accepts any status it is sent,
// including compensating reverts, and owns cross-entity ordering.
type OrderRemoteAPI interface {
	// ChangeStatus records a new status for the order.
	ChangeStatus(ctx context.Context, orderID string, change StatusChange) error

	// AssignDriver assigns driverID to the order; an empty driverID unassigns.
	AssignDriver(ctx context.Context, orderID, driverID string) error

	// ChangeSubStatus records a new status for one sub-order.
	ChangeSubStatus(ctx context.Context, orderID, subID string, change StatusChange) error

	// MarkProcured moves an errand to procured with its external references.
	MarkProcured(ctx context.Context, orderID string, procurement Procurement) error

	// FailProcurement moves an errand to procurement_failed.
	FailProcurement(ctx context.Context, orderID string, failure ProcurementFailure) error

	// Fetch returns the authoritative state of one order.
	Fetch(ctx context.Context, orderID string) (*order.Order, error)

	// List returns the orders matching filters.
	List(ctx context.Context, filters ListFilters) ([]*order.Order, error)
}
