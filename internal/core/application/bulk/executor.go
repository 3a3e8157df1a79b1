// Package bulk applies status, driver and sub-order mutations to many orders
// at once with optimistic local updates and a short undo window.
//
// Every admitted order is updated locally before the backend hears about it.
// The backend calls then run concurrently, one per order. Each action returns
// a Ticket which settles in one of these ways:
//
//   - the undo window elapses and every call succeeded: the snapshots are
//     dropped and the list is refetched;
//   - a call failed: only the failed orders are restored, the rest keep the
//     server's answer;
//   - the user calls Undo inside the window: pending calls are cancelled,
//     accepted ones are compensated and every order is restored.
//
// Overlapping actions on the same order are not serialized; the later local
// write wins and the next refetch reconciles.
package bulk

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"orderdesk/internal/core/application/ledger"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultUndoWindow  = 5 * time.Second
	DefaultConcurrency = 8
)

// View is the local order state the executor updates optimistically.
type View interface {
	Get(id string) (*order.Order, bool)
	Put(orders ...*order.Order)
	Refresh(ctx context.Context) error
}

// Option configures an Executor.
type Option func(*Executor)

// WithUndoWindow sets how long Undo stays available.
func WithUndoWindow(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.undoWindow = d
		}
	}
}

// WithConcurrency bounds the number of backend calls in flight per action.
func WithConcurrency(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// Executor runs bulk actions against the backend.
type Executor struct {
	remote      ports.OrderRemoteAPI
	view        View
	ledger      *ledger.Ledger
	undoWindow  time.Duration
	concurrency int
	logger      *zap.Logger

	running sync.WaitGroup
}

// NewExecutor creates an executor. The ledger must snapshot from the same view.
func NewExecutor(
	remote ports.OrderRemoteAPI,
	view View,
	l *ledger.Ledger,
	logger *zap.Logger,
	opts ...Option,
) *Executor {
	e := &Executor{
		remote:      remote,
		view:        view,
		ledger:      l,
		undoWindow:  DefaultUndoWindow,
		concurrency: DefaultConcurrency,
		logger:      logger.With(zap.String("component", "bulk-executor")),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UndoWindow returns the configured undo window.
func (e *Executor) UndoWindow() time.Duration { return e.undoWindow }

// Execute moves orderIDs to target. Orders the transition table refuses, or
// that are not in the view, are rejected individually and nothing is sent for
// them. Metadata missing a field target requires fails the whole action.
//
// ctx bounds admission only; the backend calls outlive it.
func (e *Executor) Execute(
	ctx context.Context,
	orderIDs []string,
	target order.Status,
	meta order.Metadata,
) (*Ticket, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := meta.ValidateFor(target); err != nil {
		return nil, err
	}
	return e.run(ctx, orderIDs, statusMutation{target: target, meta: meta})
}

// AssignDriver assigns driverID to orderIDs. The order status is left to the
// backend; undo reassigns each order's previous driver.
func (e *Executor) AssignDriver(ctx context.Context, orderIDs []string, driverID string) (*Ticket, error) {
	if driverID == "" {
		return nil, errs.NewValueIsRequiredError("driverId")
	}
	return e.run(ctx, orderIDs, driverMutation{driverID: driverID})
}

// ChangeSubStatus moves one sub-order to target.
func (e *Executor) ChangeSubStatus(
	ctx context.Context,
	orderID, subID string,
	target order.Status,
	meta order.Metadata,
) (*Ticket, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := meta.ValidateFor(target); err != nil {
		return nil, err
	}
	return e.run(ctx, []string{orderID}, subStatusMutation{subID: subID, target: target, meta: meta})
}

// Wait blocks until every running action settled or ctx ends.
func (e *Executor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) run(ctx context.Context, orderIDs []string, m mutation) (*Ticket, error) {
	var (
		admitted   []string
		rejected   []Rejection
		optimistic []*order.Order
	)
	for _, id := range dedupe(orderIDs) {
		current, ok := e.view.Get(id)
		if !ok {
			rejected = append(rejected, Rejection{OrderID: id, Err: errs.NewObjectNotFoundError("orderId", id)})
			continue
		}
		next, err := m.prepare(current)
		if err != nil {
			rejected = append(rejected, Rejection{OrderID: id, Err: err})
			continue
		}
		admitted = append(admitted, id)
		optimistic = append(optimistic, next)
	}

	t := newTicket(m.action(), admitted, rejected)
	log := e.logger.With(zap.String("ticketId", t.ID().String()), zap.String("action", m.action()))

	if len(admitted) == 0 {
		log.Info("bulk action admitted nothing", zap.Int("rejected", len(rejected)))
		t.settle(Result{Outcome: Skipped})
		return t, nil
	}

	h, err := e.ledger.BeginBatch(admitted)
	if err != nil {
		return nil, err
	}
	e.view.Put(optimistic...)
	t.openUndo(e.undoWindow)

	log.Info("bulk action started",
		zap.Int("admitted", len(admitted)),
		zap.Int("rejected", len(rejected)),
		zap.Duration("undoWindow", e.undoWindow),
	)

	e.running.Add(1)
	go e.drive(context.WithoutCancel(ctx), t, h, m, log)
	return t, nil
}

// drive owns the ticket until it settles.
func (e *Executor) drive(ctx context.Context, t *Ticket, h *ledger.BatchHandle, m mutation, log *zap.Logger) {
	defer e.running.Done()

	callCtx, cancelCalls := context.WithCancel(ctx)
	defer cancelCalls()

	callsDone := make(chan struct{})
	go func() {
		e.forwardAll(callCtx, h, m)
		close(callsDone)
	}()

	window := time.NewTimer(e.undoWindow)
	defer window.Stop()

	pending := callsDone
	windowOpen, finished := true, false
	for {
		select {
		case req := <-t.undoRequests:
			if !windowOpen {
				req.reply <- undoReply{err: ErrUndoUnavailable}
				continue
			}
			t.closeUndo()
			cancelCalls()
			<-callsDone
			result, err := e.undo(ctx, t, h, m, log)
			req.reply <- undoReply{result: result, err: err}
			return

		case <-window.C:
			windowOpen = false
			t.closeUndo()
			if finished {
				e.finalize(ctx, t, h, log)
				return
			}

		case <-pending:
			finished = true
			pending = nil
			if len(h.Failed()) > 0 {
				t.closeUndo()
				e.recoverFailures(ctx, t, h, log)
				return
			}
			if !windowOpen {
				e.finalize(ctx, t, h, log)
				return
			}
		}
	}
}

// forwardAll sends one backend call per snapshot and records the outcome on h.
// Snapshots whose call never started stay pending.
func (e *Executor) forwardAll(ctx context.Context, h *ledger.BatchHandle, m mutation) {
	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)

	for _, s := range h.Snapshots() {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := m.forward(ctx, e.remote, s.Original); err != nil {
				h.MarkFailed(s.OrderID, &RemoteMutationError{OrderID: s.OrderID, Action: m.action(), Err: err})
				return nil
			}
			h.MarkCompleted(s.OrderID)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Executor) finalize(ctx context.Context, t *Ticket, h *ledger.BatchHandle, log *zap.Logger) {
	e.ledger.Discard(h)
	e.refresh(ctx, log)

	t.settle(Result{Outcome: Succeeded, Succeeded: ids(h.Completed())})
	log.Info("bulk action settled", zap.Stringer("outcome", Succeeded))
}

// refresh refetches the authoritative list; a failure leaves the optimistic
// state in place until the next refresh.
func (e *Executor) refresh(ctx context.Context, log *zap.Logger) {
	if err := e.view.Refresh(ctx); err != nil {
		log.Warn("authoritative refetch failed", zap.Error(err))
	}
}

func (e *Executor) recoverFailures(ctx context.Context, t *Ticket, h *ledger.BatchHandle, log *zap.Logger) {
	failed := h.Failed()
	succeeded := ids(h.Completed())

	plan, err := e.ledger.RevertFailed(h)
	if err != nil {
		log.Error("failed to build revert plan", zap.Error(err))
	} else {
		e.view.Put(plan.Originals()...)
	}
	e.refresh(ctx, log)

	result := Result{Outcome: Failed, Succeeded: succeeded}
	for _, s := range failed {
		result.Failures = append(result.Failures, asRemoteError(s))
	}
	t.settle(result)

	log.Warn("bulk action partially failed",
		zap.Int("succeeded", len(succeeded)),
		zap.Int("failed", len(failed)),
		zap.Error(result.Err()),
	)
}

func (e *Executor) undo(
	ctx context.Context,
	t *Ticket,
	h *ledger.BatchHandle,
	m mutation,
	log *zap.Logger,
) (Result, error) {
	plan, err := e.ledger.Revert(h)
	if err != nil {
		log.Error("undo could not build a revert plan", zap.Error(err))
		t.settle(Result{Outcome: Failed})
		return Result{}, err
	}

	var (
		mu       sync.Mutex
		result   = Result{Outcome: Undone}
		reverts  = plan.RemoteReverts()
		g        = new(errgroup.Group)
		restored = plan.Originals()
	)
	if !plan.Replayed {
		g.SetLimit(e.concurrency)
		for _, entry := range reverts {
			g.Go(func() error {
				err := m.compensate(ctx, e.remote, entry.Original)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.CompensationFailures = append(result.CompensationFailures,
						&RemoteMutationError{OrderID: entry.OrderID, Action: "undo " + m.action(), Err: err})
					return nil
				}
				result.Compensated = append(result.Compensated, entry.OrderID)
				return nil
			})
		}
		_ = g.Wait()
	}

	e.view.Put(restored...)
	e.refresh(ctx, log)

	slices.Sort(result.Compensated)
	t.settle(result)

	log.Info("bulk action undone",
		zap.Int("restored", len(restored)),
		zap.Int("compensated", len(result.Compensated)),
		zap.Int("compensationFailures", len(result.CompensationFailures)),
	)
	return t.Result(), nil
}

func asRemoteError(s ledger.Snapshot) *RemoteMutationError {
	var rme *RemoteMutationError
	if errors.As(s.Err, &rme) {
		return rme
	}
	return &RemoteMutationError{OrderID: s.OrderID, Err: s.Err}
}

func ids(snaps []ledger.Snapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.OrderID)
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
