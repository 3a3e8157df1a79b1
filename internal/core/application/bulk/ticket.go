package bulk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"orderdesk/internal/core/domain/model/kernel"

	"go.uber.org/atomic"
)

var (
	// ErrUndoUnavailable is returned when undo is requested after the undo
	// window closed or the action already settled.
	ErrUndoUnavailable = errors.New("undo is no longer available")

	// ErrRemoteMutation matches every RemoteMutationError.
	ErrRemoteMutation = errors.New("remote mutation failed")
)

// RemoteMutationError reports a backend call that failed for one order.
type RemoteMutationError struct {
	OrderID string
	Action  string
	Err     error
}

func (e *RemoteMutationError) Error() string {
	return fmt.Sprintf("%s: %s for order %s: %v", ErrRemoteMutation, e.Action, e.OrderID, e.Err)
}

func (e *RemoteMutationError) Unwrap() error { return e.Err }

func (e *RemoteMutationError) Is(target error) bool { return target == ErrRemoteMutation }

// Outcome is how a bulk action settled.
type Outcome int

const (
	// Pending means the action has not settled yet.
	Pending Outcome = iota
	// Succeeded means every admitted order was accepted by the backend.
	Succeeded
	// Failed means at least one backend call failed; failed orders were restored.
	Failed
	// Undone means the user undid the action within the window.
	Undone
	// Skipped means no order was admitted.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Undone:
		return "undone"
	case Skipped:
		return "skipped"
	default:
		return "pending"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Rejection is an order refused before any remote call.
type Rejection struct {
	OrderID string
	Err     error
}

// Result is the state of a bulk action.
type Result struct {
	Outcome              Outcome
	Succeeded            []string
	Failures             []*RemoteMutationError
	Compensated          []string
	CompensationFailures []*RemoteMutationError
	SettledAt            time.Time
}

// Err joins every remote failure of the result.
func (r Result) Err() error {
	all := make([]error, 0, len(r.Failures)+len(r.CompensationFailures))
	for _, f := range r.Failures {
		all = append(all, f)
	}
	for _, f := range r.CompensationFailures {
		all = append(all, f)
	}
	return errors.Join(all...)
}

type undoRequest struct {
	reply chan undoReply
}

type undoReply struct {
	result Result
	err    error
}

// Ticket tracks one bulk action from admission until it settles.
type Ticket struct {
	id        kernel.UUID
	action    string
	createdAt time.Time
	admitted  []string
	rejected  []Rejection

	undoOpen     atomic.Bool
	undoDeadline time.Time
	undoRequests chan undoRequest

	done   chan struct{}
	mu     sync.Mutex
	result Result
}

func newTicket(action string, admitted []string, rejected []Rejection) *Ticket {
	return &Ticket{
		id:           kernel.NewUUID(),
		action:       action,
		createdAt:    time.Now(),
		admitted:     admitted,
		rejected:     rejected,
		undoRequests: make(chan undoRequest),
		done:         make(chan struct{}),
	}
}

// ID returns the ticket identifier.
func (t *Ticket) ID() kernel.UUID { return t.id }

// Action names the bulk action.
func (t *Ticket) Action() string { return t.action }

// CreatedAt returns when the action was admitted.
func (t *Ticket) CreatedAt() time.Time { return t.createdAt }

// Admitted returns the orders the action was applied to.
func (t *Ticket) Admitted() []string { return append([]string(nil), t.admitted...) }

// Rejected returns the orders refused locally. Nothing was sent for them.
func (t *Ticket) Rejected() []Rejection { return append([]Rejection(nil), t.rejected...) }

// UndoAvailable reports whether Undo can still succeed.
func (t *Ticket) UndoAvailable() bool { return t.undoOpen.Load() }

// UndoDeadline returns when the undo window closes.
func (t *Ticket) UndoDeadline() time.Time { return t.undoDeadline }

// Done is closed once the ticket settles.
func (t *Ticket) Done() <-chan struct{} { return t.done }

// Settled reports whether the ticket settled.
func (t *Ticket) Settled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Result returns the current result; Outcome is Pending until the ticket settles.
func (t *Ticket) Result() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Wait blocks until the ticket settles or ctx ends.
func (t *Ticket) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.Result(), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Undo rolls the action back. In-flight backend calls are cancelled, orders
// the backend already accepted get a compensating call and every admitted
// order is restored locally. It fails with ErrUndoUnavailable once the undo
// window closed or the action settled.
func (t *Ticket) Undo(ctx context.Context) (Result, error) {
	if !t.undoOpen.Load() {
		return Result{}, ErrUndoUnavailable
	}

	req := undoRequest{reply: make(chan undoReply, 1)}
	select {
	case t.undoRequests <- req:
	case <-t.done:
		return Result{}, ErrUndoUnavailable
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case r := <-req.reply:
		return r.result, r.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (t *Ticket) openUndo(window time.Duration) {
	t.undoDeadline = t.createdAt.Add(window)
	t.undoOpen.Store(true)
}

func (t *Ticket) closeUndo() { t.undoOpen.Store(false) }

func (t *Ticket) settle(r Result) {
	t.closeUndo()
	r.SettledAt = time.Now()
	t.mu.Lock()
	t.result = r
	t.mu.Unlock()
	close(t.done)
}
