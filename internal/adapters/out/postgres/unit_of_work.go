// Package postgres is the order backend of the admin desk: a GORM-based Unit
// of Work over the orders table, and OrderBackend, which applies the desk's
// mutations transactionally and announces every committed change on the
// realtime channel.
//
// Basic Transaction Management:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().Get(ctx, "ord-1") // row locked until commit
//	if err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Update(ctx, o.WithDriver("drv-4")); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Inside a transaction Get takes a row lock, so concurrent mutations
//     of one order are serialized by the database
package postgres

import (
	"context"

	"orderdesk/internal/adapters/out/postgres/orderrepo"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The provided database connection will be used for all created unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    return err
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
// Each instance maintains its own transaction state and aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:      f.db,
		tracked: make([]*order.Order, 0),
	}
}

// GormUnitOfWork coordinates database transactions and tracks the orders
// written during them, so change events can be published once the
// transaction commits.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []*order.Order
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns error if no active transaction exists or if the commit operation fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction together
// with the tracked orders. Returns gorm.ErrInvalidTransaction if no
// transaction is active, which makes a deferred Rollback after Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = uow.tracked[:0]
	return err
}

// OrderRepository provides access to order persistence operations within the unit of work.
// Repository operations will execute within the current transaction if one is active,
// otherwise they use the main database connection for immediate execution.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	if uow.tx != nil {
		return orderrepo.NewGormOrderRepository(uow.tx, uow).WithRowLocks()
	}
	return orderrepo.NewGormOrderRepository(uow.db, uow)
}

// TrackAggregate registers an order as written within this unit of work.
// Called by the repository on Add and Update.
func (uow *GormUnitOfWork) TrackAggregate(aggregate *order.Order) {
	uow.tracked = append(uow.tracked, aggregate)
}

// TrackedOrders returns the orders written through this unit of work, in write order.
func (uow *GormUnitOfWork) TrackedOrders() []*order.Order {
	return append([]*order.Order(nil), uow.tracked...)
}
