package bulk

import (
	"context"

	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"
)

// undoReason is recorded on compensating status calls.
const undoReason = "undo bulk action"

// mutation is one kind of bulk action. prepare returns the optimistic local
// copy, or nil when the action changes nothing locally; forward and compensate
// talk to the backend.
type mutation interface {
	action() string
	prepare(o *order.Order) (*order.Order, error)
	forward(ctx context.Context, remote ports.OrderRemoteAPI, original *order.Order) error
	compensate(ctx context.Context, remote ports.OrderRemoteAPI, original *order.Order) error
}

type statusMutation struct {
	target order.Status
	meta   order.Metadata
}

func (m statusMutation) action() string { return "change-status:" + m.target.String() }

func (m statusMutation) prepare(o *order.Order) (*order.Order, error) {
	return order.Apply(o, m.target, m.meta)
}

func (m statusMutation) forward(ctx context.Context, remote ports.OrderRemoteAPI, original *order.Order) error {
	switch m.target {
	case order.Procured:
		return remote.MarkProcured(ctx, original.ID(), ports.Procurement{
			ExternalOrderNo: m.meta.ExternalOrderNo,
			InvoiceURL:      m.meta.InvoiceURL,
			ChangedBy:       m.meta.ChangedBy,
		})
	case order.ProcurementFailed:
		return remote.FailProcurement(ctx, original.ID(), ports.ProcurementFailure{
			Reason:    m.meta.Reason,
			ChangedBy: m.meta.ChangedBy,
		})
	default:
		return remote.ChangeStatus(ctx, original.ID(), ports.StatusChange{
			Status:    m.target,
			Reason:    m.meta.Reason,
			ReturnBy:  m.meta.ReturnBy(m.target),
			ChangedBy: m.meta.ChangedBy,
		})
	}
}

func (m statusMutation) compensate(ctx context.Context, remote ports.OrderRemoteAPI, original *order.Order) error {
	return remote.ChangeStatus(ctx, original.ID(), ports.StatusChange{
		Status:    original.Status(),
		Reason:    undoReason,
		ChangedBy: m.meta.ChangedBy,
	})
}

type driverMutation struct {
	driverID string
}

func (m driverMutation) action() string { return "assign-driver" }

func (m driverMutation) prepare(o *order.Order) (*order.Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o.WithDriver(m.driverID), nil
}

func (m driverMutation) forward(ctx context.Context, remote ports.OrderRemoteAPI, original *order.Order) error {
	return remote.AssignDriver(ctx, original.ID(), m.driverID)
}

func (m driverMutation) compensate(ctx context.Context, remote ports.OrderRemoteAPI, original *order.Order) error {
	return remote.AssignDriver(ctx, original.ID(), original.DriverID())
}

type subStatusMutation struct {
	subID  string
	target order.Status
	meta   order.Metadata
}

func (m subStatusMutation) action() string { return "change-sub-status:" + m.target.String() }

func (m subStatusMutation) prepare(o *order.Order) (*order.Order, error) {
	return order.ApplySub(o, m.subID, m.target, m.meta)
}

func (m subStatusMutation) forward(ctx context.Context, remote ports.OrderRemoteAPI, original *order.Order) error {
	return remote.ChangeSubStatus(ctx, original.ID(), m.subID, ports.StatusChange{
		Status:    m.target,
		Reason:    m.meta.Reason,
		ReturnBy:  m.meta.ReturnBy(m.target),
		ChangedBy: m.meta.ChangedBy,
	})
}

func (m subStatusMutation) compensate(ctx context.Context, remote ports.OrderRemoteAPI, original *order.Order) error {
	sub, ok := original.SubOrder(m.subID)
	if !ok {
		return nil
	}
	return remote.ChangeSubStatus(ctx, original.ID(), m.subID, ports.StatusChange{
		Status:    sub.Status(),
		Reason:    undoReason,
		ChangedBy: m.meta.ChangedBy,
	})
}
