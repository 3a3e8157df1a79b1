package queries

import (
	"errors"

	"orderdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetStatusSummaryQueryIsNotConstructed = errors.New(
	"GetStatusSummaryQuery must be created via NewGetStatusSummaryQuery constructor",
)

// GetStatusSummaryQuery counts orders per status together with the cash still
// to collect. It reads the backend database directly.
type GetStatusSummaryQuery struct {
	guard guard.ConstructorGuard
}

func NewGetStatusSummaryQuery() GetStatusSummaryQuery {
	return GetStatusSummaryQuery{guard: guard.NewConstructorGuard()}
}

func (q GetStatusSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusSummaryQueryIsNotConstructed)
}

// StatusSummary is one row of the summary.
type StatusSummary struct {
	Status  string          `json:"status"`
	Orders  int64           `json:"orders"`
	CashDue decimal.Decimal `json:"cashDue"`
}
