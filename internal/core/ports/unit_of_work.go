package ports

import (
	"context"

	"orderdesk/internal/core/domain/model/order"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each backend mutation.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// TrackedOrders returns the orders added or updated through this unit of work,
	// in write order, so change events can be published after commit.
	TrackedOrders() []*order.Order
}
