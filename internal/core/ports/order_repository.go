package ports

import (
	"context"

	"orderdesk/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates on the
// backend side.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id. Inside a transaction the row is locked for update.
	Get(ctx context.Context, id string) (*order.Order, error)

	// List retrieves the orders matching filters, newest first.
	List(ctx context.Context, filters ListFilters) ([]*order.Order, error)
}
