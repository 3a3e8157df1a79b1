package queries

import (
	"errors"

	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

const MaxListLimit = 500

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery filters the session's order list. Zero filters match everything.
//
// Example:
//
//	query, err := NewListOrdersQuery([]string{"preparing", "assigned"}, "errand", "", "", 50)
//	if err != nil {
//	    return err
//	}
//	rows, err := handler.Handle(ctx, query)
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	statuses  []order.Status
	orderType order.Type
	source    order.Source
	driverID  string
	limit     int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery parses and validates the filters. limit 0 means no limit.
func NewListOrdersQuery(statuses []string, orderType, source, driverID string, limit int) (ListOrdersQuery, error) {
	q := ListOrdersQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setStatuses(statuses),
		q.setType(order.Type(orderType)),
		q.setSource(order.Source(source)),
		q.setLimit(limit),
	); err != nil {
		return ListOrdersQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Matches reports whether o passes every filter.
func (q ListOrdersQuery) Matches(o *order.Order) bool {
	if len(q.statuses) > 0 && !containsStatus(q.statuses, o.Status()) {
		return false
	}
	if q.orderType != "" && o.Type() != q.orderType {
		return false
	}
	if q.source != order.SourceNone && o.Source() != q.source {
		return false
	}
	if q.driverID != "" && o.DriverID() != q.driverID {
		return false
	}
	return true
}

// Limit returns the maximum number of rows, 0 for all.
func (q ListOrdersQuery) Limit() int { return q.limit }

func (q *ListOrdersQuery) setStatuses(names []string) error {
	statuses := make([]order.Status, 0, len(names))
	for _, name := range names {
		s, err := order.ParseStatus(name)
		if err != nil {
			return err
		}
		statuses = append(statuses, s)
	}
	q.statuses = statuses
	return nil
}

func (q *ListOrdersQuery) setType(t order.Type) error {
	if t != "" {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	q.orderType = t
	return nil
}

func (q *ListOrdersQuery) setSource(s order.Source) error {
	if err := s.Validate(); err != nil {
		return err
	}
	q.source = s
	return nil
}

func (q *ListOrdersQuery) setLimit(limit int) error {
	if limit < 0 || limit > MaxListLimit {
		return errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxListLimit)
	}
	q.limit = limit
	return nil
}

func containsStatus(statuses []order.Status, s order.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
