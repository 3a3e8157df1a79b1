// Package realtime keeps the session's local views in step with the backend
// by reacting to push events instead of polling.
//
// Events carry no payload. Each one only marks the list, and the detail of an
// opened order, as stale; a flusher then refetches once per tick no matter how
// many events arrived in it.
package realtime

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"orderdesk/internal/core/ports"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// DefaultCoalesceTick is how long the flusher waits to collect events before refetching.
const DefaultCoalesceTick = 100 * time.Millisecond

// ErrStreamClosed is returned by Run when the channel closes its event stream.
var ErrStreamClosed = errors.New("realtime stream closed")

// State is the connection state of the reconciler.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ListRefresher refetches the order list.
type ListRefresher interface {
	Refresh(ctx context.Context) error
}

// DetailRefresher refetches one order detail.
type DetailRefresher interface {
	Refresh(ctx context.Context, orderID string) error
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithCoalesceTick sets the flusher tick.
func WithCoalesceTick(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.tick = d
		}
	}
}

// Reconciler applies push events to the local views.
type Reconciler struct {
	channel ports.RealtimeChannel
	list    ListRefresher
	details DetailRefresher
	tick    time.Duration
	logger  *zap.Logger

	state atomic.Int32

	// roomsMu is held across transport joins and leaves so each room is
	// joined and left exactly once.
	roomsMu sync.Mutex
	rooms   map[string]int
	joined  map[string]bool

	dirtyMu      sync.Mutex
	listDirty    bool
	dirtyDetails map[string]struct{}
	wake         chan struct{}
}

// New creates a disconnected reconciler.
func New(
	channel ports.RealtimeChannel,
	list ListRefresher,
	details DetailRefresher,
	logger *zap.Logger,
	opts ...Option,
) *Reconciler {
	r := &Reconciler{
		channel:      channel,
		list:         list,
		details:      details,
		tick:         DefaultCoalesceTick,
		logger:       logger.With(zap.String("component", "realtime-reconciler")),
		rooms:        map[string]int{},
		joined:       map[string]bool{},
		dirtyDetails: map[string]struct{}{},
		wake:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current connection state.
func (r *Reconciler) State() State { return State(r.state.Load()) }

// Connected reports whether events are being applied.
func (r *Reconciler) Connected() bool { return r.State() == Connected }

// Run connects with creds and applies events until ctx ends or the stream
// closes. It returns nil when ctx ends.
func (r *Reconciler) Run(ctx context.Context, creds ports.Credentials) error {
	r.setState(Connecting)

	stream, err := r.channel.Connect(ctx, creds)
	if err != nil {
		r.setState(Disconnected)
		return err
	}

	flushCtx, stopFlush := context.WithCancel(ctx)
	flushDone := make(chan struct{})
	go func() {
		r.flushLoop(flushCtx)
		close(flushDone)
	}()
	defer func() {
		stopFlush()
		<-flushDone
	}()

	r.onConnected(ctx)

	connectivity := stream.Connectivity
	for {
		select {
		case <-ctx.Done():
			r.onStreamEnded()
			return nil

		case ev, ok := <-stream.Events:
			if !ok {
				r.onStreamEnded()
				return ErrStreamClosed
			}
			r.OnEvent(ev)

		case up, ok := <-connectivity:
			if !ok {
				connectivity = nil
				continue
			}
			if up {
				r.onConnected(ctx)
			} else {
				r.onDisconnected()
			}
		}
	}
}

// OnEvent marks the views touched by ev as stale. Events received while not
// connected, and events of unknown kind, are ignored. It reports whether ev
// invalidated anything.
func (r *Reconciler) OnEvent(ev ports.ChangeEvent) bool {
	if !r.Connected() {
		return false
	}
	if err := ev.Validate(); err != nil {
		r.logger.Debug("ignoring event", zap.Error(err))
		return false
	}

	r.dirtyMu.Lock()
	r.listDirty = true
	r.dirtyDetails[ev.OrderID] = struct{}{}
	r.dirtyMu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return true
}

// SubscribeDetail adds one viewer of orderID's room. The first viewer joins
// the room, right away when connected and otherwise on the next connect.
func (r *Reconciler) SubscribeDetail(ctx context.Context, orderID string) error {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	r.rooms[orderID]++
	if r.rooms[orderID] > 1 || !r.Connected() || r.joined[orderID] {
		return nil
	}

	if err := r.channel.JoinRoom(ctx, orderID); err != nil {
		r.rooms[orderID]--
		if r.rooms[orderID] == 0 {
			delete(r.rooms, orderID)
		}
		return err
	}
	r.joined[orderID] = true
	r.logger.Debug("joined room", zap.String("orderId", orderID))
	return nil
}

// UnsubscribeDetail removes one viewer of orderID's room and leaves the room
// with the last one. Unbalanced calls are ignored.
func (r *Reconciler) UnsubscribeDetail(ctx context.Context, orderID string) error {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()

	if r.rooms[orderID] == 0 {
		return nil
	}
	r.rooms[orderID]--
	if r.rooms[orderID] > 0 {
		return nil
	}
	delete(r.rooms, orderID)

	if !r.joined[orderID] {
		return nil
	}
	delete(r.joined, orderID)
	if err := r.channel.LeaveRoom(ctx, orderID); err != nil {
		r.logger.Warn("failed to leave room", zap.String("orderId", orderID), zap.Error(err))
		return err
	}
	r.logger.Debug("left room", zap.String("orderId", orderID))
	return nil
}

// Rooms returns the subscribed order ids, sorted.
func (r *Reconciler) Rooms() []string {
	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()
	out := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *Reconciler) setState(s State) {
	if prev := State(r.state.Swap(int32(s))); prev != s {
		r.logger.Info("realtime state changed", zap.Stringer("from", prev), zap.Stringer("to", s))
	}
}

func (r *Reconciler) onConnected(ctx context.Context) {
	r.setState(Connected)

	r.roomsMu.Lock()
	defer r.roomsMu.Unlock()
	for id := range r.rooms {
		if r.joined[id] {
			continue
		}
		if err := r.channel.JoinRoom(ctx, id); err != nil {
			r.logger.Warn("failed to rejoin room", zap.String("orderId", id), zap.Error(err))
			continue
		}
		r.joined[id] = true
	}
}

// onDisconnected stops applying events. Room membership belongs to the
// stream and survives connectivity flaps, so rooms joined on this stream are
// still left when their last viewer goes.
func (r *Reconciler) onDisconnected() {
	r.setState(Disconnected)
}

// onStreamEnded forgets transport room membership; every room is joined again
// on the next stream.
func (r *Reconciler) onStreamEnded() {
	r.setState(Disconnected)

	r.roomsMu.Lock()
	clear(r.joined)
	r.roomsMu.Unlock()
}

func (r *Reconciler) flushLoop(ctx context.Context) {
	timer := time.NewTimer(r.tick)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.wake:
		}

		timer.Reset(r.tick)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		r.flush(ctx)
	}
}

func (r *Reconciler) flush(ctx context.Context) {
	r.dirtyMu.Lock()
	listDirty := r.listDirty
	touched := r.dirtyDetails
	r.listDirty = false
	r.dirtyDetails = map[string]struct{}{}
	r.dirtyMu.Unlock()

	if listDirty {
		if err := r.list.Refresh(ctx); err != nil {
			r.logger.Warn("list refetch after events failed", zap.Error(err))
		}
	}

	r.roomsMu.Lock()
	var details []string
	for id := range touched {
		if r.rooms[id] > 0 {
			details = append(details, id)
		}
	}
	r.roomsMu.Unlock()

	for _, id := range details {
		if err := r.details.Refresh(ctx, id); err != nil {
			r.logger.Warn("detail refetch after events failed", zap.String("orderId", id), zap.Error(err))
		}
	}
	r.logger.Debug("flushed events", zap.Bool("list", listDirty), zap.Int("details", len(details)))
}
