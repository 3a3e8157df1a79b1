package postgres

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"

	"go.uber.org/zap"
)

var now = func() time.Time { return time.Now().UTC() }

// OrderBackend serves the desk's OrderRemoteAPI straight from the database.
// It is the source of truth: it records whatever status it is sent, including
// compensating reverts, without checking the transition table. After every
// commit it publishes one ChangeEvent per written order.
type OrderBackend struct {
	uowFactory ports.UnitOfWorkFactory
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

// NewOrderBackend creates a backend publishing through publisher.
func NewOrderBackend(uowFactory ports.UnitOfWorkFactory, publisher ports.EventPublisher, logger *zap.Logger) *OrderBackend {
	return &OrderBackend{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With(zap.String("component", "order-backend")),
	}
}

// Create stores a new order and announces it.
func (b *OrderBackend) Create(ctx context.Context, o *order.Order) error {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	b.publish(ctx, uow.TrackedOrders(), ports.EntityOrder, ports.EventCreated)
	return nil
}

// ChangeStatus records a new status for the order.
func (b *OrderBackend) ChangeStatus(ctx context.Context, orderID string, change ports.StatusChange) error {
	return b.mutate(ctx, orderID, ports.EntityOrder, ports.EventStatusChanged, func(o *order.Order) (*order.Order, error) {
		return o.Recorded(order.HistoryEntry{
			Status:    change.Status,
			ChangedAt: now(),
			ChangedBy: change.ChangedBy,
			Reason:    change.Reason,
		}), nil
	})
}

// AssignDriver assigns driverID to the order; an empty driverID unassigns.
func (b *OrderBackend) AssignDriver(ctx context.Context, orderID, driverID string) error {
	return b.mutate(ctx, orderID, ports.EntityOrder, ports.EventDriverAssigned, func(o *order.Order) (*order.Order, error) {
		return o.WithDriver(driverID), nil
	})
}

// ChangeSubStatus records a new status for one sub-order.
func (b *OrderBackend) ChangeSubStatus(
	ctx context.Context,
	orderID, subID string,
	change ports.StatusChange,
) error {
	return b.mutate(ctx, orderID, ports.EntitySubOrder, ports.EventSubStatusChanged, func(o *order.Order) (*order.Order, error) {
		return o.RecordedSub(subID, order.HistoryEntry{
			Status:    change.Status,
			ChangedAt: now(),
			ChangedBy: change.ChangedBy,
			Reason:    change.Reason,
		})
	})
}

// MarkProcured moves an errand to procured with its external references.
func (b *OrderBackend) MarkProcured(ctx context.Context, orderID string, p ports.Procurement) error {
	return b.mutate(ctx, orderID, ports.EntityOrder, ports.EventStatusChanged, func(o *order.Order) (*order.Order, error) {
		return o.Recorded(order.HistoryEntry{
			Status:    order.Procured,
			ChangedAt: now(),
			ChangedBy: p.ChangedBy,
		}).WithProcurement(p.ExternalOrderNo, p.InvoiceURL), nil
	})
}

// FailProcurement moves an errand to procurement_failed.
func (b *OrderBackend) FailProcurement(ctx context.Context, orderID string, f ports.ProcurementFailure) error {
	return b.mutate(ctx, orderID, ports.EntityOrder, ports.EventStatusChanged, func(o *order.Order) (*order.Order, error) {
		return o.Recorded(order.HistoryEntry{
			Status:    order.ProcurementFailed,
			ChangedAt: now(),
			ChangedBy: f.ChangedBy,
			Reason:    f.Reason,
		}), nil
	})
}

// AddNote appends a note to the order.
func (b *OrderBackend) AddNote(ctx context.Context, orderID string, note order.Note) error {
	return b.mutate(ctx, orderID, ports.EntityOrder, ports.EventNoteAdded, func(o *order.Order) (*order.Order, error) {
		if note.CreatedAt.IsZero() {
			note.CreatedAt = now()
		}
		return o.WithNote(note)
	})
}

// Fetch returns one order.
func (b *OrderBackend) Fetch(ctx context.Context, orderID string) (*order.Order, error) {
	return b.uowFactory.Create().OrderRepository().Get(ctx, orderID)
}

// List returns the orders matching filters.
func (b *OrderBackend) List(ctx context.Context, filters ports.ListFilters) ([]*order.Order, error) {
	return b.uowFactory.Create().OrderRepository().List(ctx, filters)
}

func (b *OrderBackend) mutate(
	ctx context.Context,
	orderID string,
	entity ports.EntityType,
	kind ports.EventKind,
	change func(*order.Order) (*order.Order, error),
) error {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	repo := uow.OrderRepository()
	current, err := repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	next, err := change(current)
	if err != nil {
		return err
	}
	if err = repo.Update(ctx, next); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	b.publish(ctx, uow.TrackedOrders(), entity, kind)
	return nil
}

// publish announces committed changes. Failures are only logged since the change is already committed.
func (b *OrderBackend) publish(ctx context.Context, orders []*order.Order, entity ports.EntityType, kind ports.EventKind) {
	for _, o := range orders {
		ev := ports.ChangeEvent{EntityType: entity, OrderID: o.ID(), Kind: kind}
		if err := b.publisher.Publish(ctx, ev); err != nil {
			b.logger.Warn("failed to publish change event",
				zap.String("orderId", o.ID()), zap.String("kind", string(kind)), zap.Error(err))
		}
	}
}
