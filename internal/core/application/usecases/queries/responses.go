// Package queries contains the admin desk's read operations. List and detail
// queries read the session's local views; reporting queries read the database
// directly.
package queries

import (
	"time"

	"orderdesk/internal/core/domain/model/order"
)

// OrderSummary is one row of the order list.
type OrderSummary struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	Type          string    `json:"type"`
	Source        string    `json:"source,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	DriverID      string    `json:"driverId,omitempty"`
	Price         string    `json:"price"`
	DeliveryFee   string    `json:"deliveryFee"`
	WalletUsed    string    `json:"walletUsed"`
	CashDue       string    `json:"cashDue"`
	SubOrders     int       `json:"subOrders"`
	ChangedAt     time.Time `json:"changedAt"`
	ChangedBy     string    `json:"changedBy,omitempty"`
}

// HistoryItem is one status history entry.
type HistoryItem struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
	ChangedBy string    `json:"changedBy,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// SubOrderItem is one sub-order of a detail view.
type SubOrderItem struct {
	ID       string        `json:"id"`
	Status   string        `json:"status"`
	DriverID string        `json:"driverId,omitempty"`
	Origin   string        `json:"origin,omitempty"`
	History  []HistoryItem `json:"history"`
}

// NoteItem is one note of a detail view.
type NoteItem struct {
	ID         string    `json:"id"`
	Body       string    `json:"body"`
	Visibility string    `json:"visibility"`
	Author     string    `json:"author,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OrderDetails is the full state of one order plus the statuses it may move to.
type OrderDetails struct {
	OrderSummary
	ExternalOrderNo string         `json:"externalOrderNo,omitempty"`
	InvoiceURL      string         `json:"invoiceUrl,omitempty"`
	AllowedTargets  []string       `json:"allowedTargets"`
	History         []HistoryItem  `json:"history"`
	SubOrderItems   []SubOrderItem `json:"subOrderItems"`
	Notes           []NoteItem     `json:"notes"`
}

func summarize(o *order.Order) OrderSummary {
	amounts := o.Amounts()
	last := o.LastChange()
	return OrderSummary{
		ID:            o.ID(),
		Status:        o.Status().String(),
		Type:          string(o.Type()),
		Source:        string(o.Source()),
		PaymentMethod: string(o.PaymentMethod()),
		DriverID:      o.DriverID(),
		Price:         amounts.Price.String(),
		DeliveryFee:   amounts.DeliveryFee.String(),
		WalletUsed:    amounts.WalletUsed.String(),
		CashDue:       amounts.CashDue.String(),
		SubOrders:     len(o.SubOrders()),
		ChangedAt:     last.ChangedAt,
		ChangedBy:     last.ChangedBy,
	}
}

func historyItems(entries []order.HistoryEntry) []HistoryItem {
	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			Status:    e.Status.String(),
			ChangedAt: e.ChangedAt,
			ChangedBy: e.ChangedBy,
			Reason:    e.Reason,
		})
	}
	return items
}
