package queries

import (
	"context"

	"orderdesk/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetStatusSummaryQueryHandler aggregates the orders table per status.
// Statuses without orders are reported with zero counts, in lifecycle order.
type GetStatusSummaryQueryHandler struct {
	db *gorm.DB
}

func NewGetStatusSummaryQueryHandler(db *gorm.DB) GetStatusSummaryQueryHandler {
	return GetStatusSummaryQueryHandler{db: db}
}

func (h GetStatusSummaryQueryHandler) Handle(ctx context.Context, query GetStatusSummaryQuery) ([]StatusSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			COUNT(*),
			COALESCE(SUM(cash_due), 0)
		FROM orders
		GROUP BY status
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]StatusSummary)
	for rows.Next() {
		var row StatusSummary
		if err = rows.Scan(&row.Status, &row.Orders, &row.CashDue); err != nil {
			return nil, err
		}
		found[row.Status] = row
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	summary := make([]StatusSummary, 0, len(order.AllStatuses()))
	for _, s := range order.AllStatuses() {
		row, ok := found[s.String()]
		if !ok {
			row = StatusSummary{Status: s.String(), CashDue: decimal.Zero}
		}
		summary = append(summary, row)
	}
	return summary, nil
}
