package ports

import (
	"context"
	"fmt"

	"orderdesk/internal/pkg/errs"
)

// EntityType names what a ChangeEvent is about.
type EntityType string

const (
	EntityOrder    EntityType = "order"
	EntitySubOrder EntityType = "suborder"
)

// EventKind is the kind of change the backend pushed.
type EventKind string

const (
	EventCreated          EventKind = "created"
	EventUpdated          EventKind = "updated"
	EventStatusChanged    EventKind = "status-changed"
	EventSubStatusChanged EventKind = "sub-status-changed"
	EventDriverAssigned   EventKind = "driver-assigned"
	EventPODSet           EventKind = "pod-set"
	EventNoteAdded        EventKind = "note-added"
)

// EventKinds lists the kinds the desk subscribes to.
func EventKinds() []EventKind {
	return []EventKind{
		EventCreated, EventUpdated, EventStatusChanged, EventSubStatusChanged,
		EventDriverAssigned, EventPODSet, EventNoteAdded,
	}
}

// ChangeEvent is a transient message pushed by the backend. It is consumed once.
type ChangeEvent struct {
	EntityType EntityType `json:"entityType"`
	OrderID    string     `json:"orderId"`
	Kind       EventKind  `json:"kind"`
}

// Validate checks that the event names an order and a subscribed kind.
func (e ChangeEvent) Validate() error {
	if e.OrderID == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	for _, k := range EventKinds() {
		if k == e.Kind {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a subscribed event kind", e.Kind))
}

// Credentials authenticate a session on the realtime channel.
type Credentials struct {
	AdminID string
	Token   string
}

// Stream is an open realtime connection. Events closes when the connection ends
// for good; Connectivity reports transient drops and recoveries.
type Stream struct {
	Events       <-chan ChangeEvent
	Connectivity <-chan bool
}

// RealtimeChannel is the push transport. Each session owns its own instance.
// Reconnect loops belong to the implementation.
type RealtimeChannel interface {
	Connect(ctx context.Context, creds Credentials) (*Stream, error)
	JoinRoom(ctx context.Context, orderID string) error
	LeaveRoom(ctx context.Context, orderID string) error
}

// EventPublisher pushes change events to every connected desk.
type EventPublisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}
