// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Scalar attributes map to columns; the status history, sub-orders and notes are
// stored as JSON documents on the order row.
package orderrepo

import (
	"encoding/json"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID              string          `gorm:"primaryKey;size:64"`
	Status          string          `gorm:"size:32;index"`
	Type            string          `gorm:"size:16;index"`
	Source          string          `gorm:"size:16"`
	PaymentMethod   string          `gorm:"size:32"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2)"`
	DeliveryFee     decimal.Decimal `gorm:"type:numeric(12,2)"`
	WalletUsed      decimal.Decimal `gorm:"type:numeric(12,2)"`
	CashDue         decimal.Decimal `gorm:"type:numeric(12,2)"`
	DriverID        *string         `gorm:"size:64;index"`
	ExternalOrderNo string          `gorm:"size:64"`
	InvoiceURL      string
	History         datatypes.JSON
	SubOrders       datatypes.JSON
	Notes           datatypes.JSON
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

type historyDTO struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
	ChangedBy string    `json:"changedBy,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

type geoPointDTO struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
}

type subOrderDTO struct {
	ID       string       `json:"id"`
	Status   string       `json:"status"`
	DriverID string       `json:"driverId,omitempty"`
	Origin   *geoPointDTO `json:"origin,omitempty"`
	History  []historyDTO `json:"history"`
}

type noteDTO struct {
	ID         string    `json:"id"`
	Body       string    `json:"body"`
	Visibility string    `json:"visibility"`
	Author     string    `json:"author,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) (OrderDTO, error) {
	attrs := o.Attributes()

	history, err := json.Marshal(historyFromDomain(attrs.History))
	if err != nil {
		return OrderDTO{}, err
	}

	subs := make([]subOrderDTO, 0, len(attrs.SubOrders))
	for _, s := range attrs.SubOrders {
		dto := subOrderDTO{
			ID:       s.ID(),
			Status:   s.Status().String(),
			DriverID: s.DriverID(),
			History:  historyFromDomain(s.History()),
		}
		if p, ok := s.Origin(); ok {
			dto.Origin = &geoPointDTO{Lat: p.Lat(), Lng: p.Lng(), Label: p.Label()}
		}
		subs = append(subs, dto)
	}
	subOrders, err := json.Marshal(subs)
	if err != nil {
		return OrderDTO{}, err
	}

	ns := make([]noteDTO, 0, len(attrs.Notes))
	for _, n := range attrs.Notes {
		ns = append(ns, noteDTO{
			ID:         n.ID,
			Body:       n.Body,
			Visibility: string(n.Visibility),
			Author:     n.Author,
			CreatedAt:  n.CreatedAt,
		})
	}
	notes, err := json.Marshal(ns)
	if err != nil {
		return OrderDTO{}, err
	}

	var driverID *string
	if attrs.DriverID != "" {
		id := attrs.DriverID
		driverID = &id
	}

	return OrderDTO{
		ID:              attrs.ID,
		Status:          attrs.Status.String(),
		Type:            string(attrs.Type),
		Source:          string(attrs.Source),
		PaymentMethod:   string(attrs.PaymentMethod),
		Price:           attrs.Amounts.Price.Decimal(),
		DeliveryFee:     attrs.Amounts.DeliveryFee.Decimal(),
		WalletUsed:      attrs.Amounts.WalletUsed.Decimal(),
		CashDue:         attrs.Amounts.CashDue.Decimal(),
		DriverID:        driverID,
		ExternalOrderNo: attrs.ExternalOrderNo,
		InvoiceURL:      attrs.InvoiceURL,
		History:         datatypes.JSON(history),
		SubOrders:       datatypes.JSON(subOrders),
		Notes:           datatypes.JSON(notes),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var rawHistory []historyDTO
	if err = unmarshalJSON(dto.History, &rawHistory); err != nil {
		return nil, err
	}
	history, err := historyToDomain(rawHistory)
	if err != nil {
		return nil, err
	}

	var rawSubs []subOrderDTO
	if err = unmarshalJSON(dto.SubOrders, &rawSubs); err != nil {
		return nil, err
	}
	subOrders := make([]*order.SubOrder, 0, len(rawSubs))
	for _, s := range rawSubs {
		sub, subErr := subOrderToDomain(s)
		if subErr != nil {
			return nil, subErr
		}
		subOrders = append(subOrders, sub)
	}

	var rawNotes []noteDTO
	if err = unmarshalJSON(dto.Notes, &rawNotes); err != nil {
		return nil, err
	}
	notes := make([]order.Note, 0, len(rawNotes))
	for _, n := range rawNotes {
		notes = append(notes, order.Note{
			ID:         n.ID,
			Body:       n.Body,
			Visibility: order.Visibility(n.Visibility),
			Author:     n.Author,
			CreatedAt:  n.CreatedAt,
		})
	}

	amounts, err := amountsToDomain(dto)
	if err != nil {
		return nil, err
	}

	var driverID string
	if dto.DriverID != nil {
		driverID = *dto.DriverID
	}

	return order.RestoreOrder(order.Attributes{
		ID:              dto.ID,
		Status:          status,
		Type:            order.Type(dto.Type),
		Source:          order.Source(dto.Source),
		PaymentMethod:   order.PaymentMethod(dto.PaymentMethod),
		Amounts:         amounts,
		DriverID:        driverID,
		ExternalOrderNo: dto.ExternalOrderNo,
		InvoiceURL:      dto.InvoiceURL,
		History:         history,
		SubOrders:       subOrders,
		Notes:           notes,
	})
}

func subOrderToDomain(s subOrderDTO) (*order.SubOrder, error) {
	status, err := order.ParseStatus(s.Status)
	if err != nil {
		return nil, err
	}
	history, err := historyToDomain(s.History)
	if err != nil {
		return nil, err
	}

	var origin *kernel.GeoPoint
	if s.Origin != nil {
		p, pErr := kernel.NewLabeledGeoPoint(s.Origin.Lat, s.Origin.Lng, s.Origin.Label)
		if pErr != nil {
			return nil, pErr
		}
		origin = &p
	}

	return order.RestoreSubOrder(s.ID, status, s.DriverID, origin, history)
}

func amountsToDomain(dto OrderDTO) (order.Amounts, error) {
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return order.Amounts{}, err
	}
	fee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return order.Amounts{}, err
	}
	wallet, err := kernel.NewMoney(dto.WalletUsed)
	if err != nil {
		return order.Amounts{}, err
	}
	cash, err := kernel.NewMoney(dto.CashDue)
	if err != nil {
		return order.Amounts{}, err
	}
	return order.Amounts{Price: price, DeliveryFee: fee, WalletUsed: wallet, CashDue: cash}, nil
}

func historyFromDomain(entries []order.HistoryEntry) []historyDTO {
	out := make([]historyDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyDTO{
			Status:    e.Status.String(),
			ChangedAt: e.ChangedAt,
			ChangedBy: e.ChangedBy,
			Reason:    e.Reason,
		})
	}
	return out
}

func historyToDomain(entries []historyDTO) ([]order.HistoryEntry, error) {
	out := make([]order.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		status, err := order.ParseStatus(e.Status)
		if err != nil {
			return nil, err
		}
		out = append(out, order.HistoryEntry{
			Status:    status,
			ChangedAt: e.ChangedAt,
			ChangedBy: e.ChangedBy,
			Reason:    e.Reason,
		})
	}
	return out, nil
}

func unmarshalJSON(raw datatypes.JSON, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
