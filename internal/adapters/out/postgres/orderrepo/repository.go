package orderrepo

import (
	"context"
	"errors"

	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db       *gorm.DB
	tracker  aggregateTracker
	lockRows bool
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(aggregate *order.Order)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// WithRowLocks returns a repository whose Get locks the row until the
// surrounding transaction ends.
func (r *GormOrderRepository) WithRowLocks() *GormOrderRepository {
	locked := *r
	locked.lockRows = true
	return &locked
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Update saves an existing order to the database. Every column is written,
// so cleared values such as an unassigned driver are persisted too.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("orderId")
	}

	q := r.db.WithContext(ctx)
	if r.lockRows {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := q.First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// List retrieves the orders matching filters, newest first.
func (r *GormOrderRepository) List(ctx context.Context, filters ports.ListFilters) ([]*order.Order, error) {
	q := r.db.WithContext(ctx).Model(&OrderDTO{})

	if len(filters.Statuses) > 0 {
		names := make([]string, 0, len(filters.Statuses))
		for _, s := range filters.Statuses {
			names = append(names, s.String())
		}
		q = q.Where("status = ANY(?)", pq.Array(names))
	}
	if filters.Type != "" {
		q = q.Where("type = ?", string(filters.Type))
	}
	if filters.Source != "" {
		q = q.Where("source = ?", string(filters.Source))
	}
	if filters.DriverID != "" {
		q = q.Where("driver_id = ?", filters.DriverID)
	}
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}

	var dtos []OrderDTO
	if err := q.Order("created_at DESC").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
