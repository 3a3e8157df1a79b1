// Package session wires the admin desk core together: the order views, the
// mutation ledger, the bulk executor, the realtime reconciler and the polling
// fallback. A Session is the single entry point the transports talk to.
//
// Example:
//
//	s, err := session.New(remote, channel, session.DefaultConfig("admin-1"), logger)
//	if err != nil {
//	    return err
//	}
//	if err := s.Start(ctx, ports.Credentials{AdminID: "admin-1", Token: token}); err != nil {
//	    return err
//	}
//	defer s.Stop(context.Background())
//
//	ticket, err := s.ChangeStatus(ctx, []string{"ord-1", "ord-2"}, order.Delivered, order.Metadata{})
//	if err != nil {
//	    return err
//	}
//	// within the undo window
//	_, _ = s.Undo(ctx, ticket.ID().String())
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"orderdesk/internal/core/application/bulk"
	"orderdesk/internal/core/application/ledger"
	"orderdesk/internal/core/application/realtime"
	"orderdesk/internal/core/application/view"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/jobs"
	"orderdesk/internal/pkg/errs"

	"go.uber.org/zap"
)

// ErrSessionNotStarted is returned by Stop on a session that was never started.
var ErrSessionNotStarted = errors.New("session was not started")

// ErrSessionAlreadyStarted is returned by Start on a running session.
var ErrSessionAlreadyStarted = errors.New("session is already started")

// Config holds the session tunables.
type Config struct {
	// AdminID is recorded as changedBy when a mutation names no actor.
	AdminID string

	UndoWindow        time.Duration
	PollInterval      time.Duration
	CoalesceTick      time.Duration
	ReconnectDelay    time.Duration
	TicketRetention   time.Duration
	RemoteConcurrency int
}

// DefaultConfig returns the default tunables for adminID.
func DefaultConfig(adminID string) Config {
	return Config{
		AdminID:           adminID,
		UndoWindow:        bulk.DefaultUndoWindow,
		PollInterval:      10 * time.Second,
		CoalesceTick:      realtime.DefaultCoalesceTick,
		ReconnectDelay:    2 * time.Second,
		TicketRetention:   10 * time.Minute,
		RemoteConcurrency: bulk.DefaultConcurrency,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var problems []error
	if c.AdminID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("adminId"))
	}
	if c.UndoWindow <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("undoWindow", c.UndoWindow, time.Millisecond, time.Minute))
	}
	if c.RemoteConcurrency <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("remoteConcurrency", c.RemoteConcurrency, 1, 64))
	}
	if c.ReconnectDelay <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("reconnectDelay", c.ReconnectDelay, time.Millisecond, time.Minute))
	}
	return errors.Join(problems...)
}

// Session is one admin's desk.
type Session struct {
	cfg    Config
	remote ports.OrderRemoteAPI
	logger *zap.Logger

	list       *view.List
	details    *view.Details
	ledger     *ledger.Ledger
	executor   *bulk.Executor
	reconciler *realtime.Reconciler
	jobs       *jobs.JobManager
	tickets    *ticketRegistry
	watches    *watchRegistry

	mu      sync.Mutex
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// New wires a session. Nothing runs until Start.
func New(
	remote ports.OrderRemoteAPI,
	channel ports.RealtimeChannel,
	cfg Config,
	logger *zap.Logger,
) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:     cfg,
		remote:  remote,
		logger:  logger.With(zap.String("component", "session"), zap.String("adminId", cfg.AdminID)),
		list:    view.NewList(remote, logger),
		details: view.NewDetails(remote, logger),
		tickets: newTicketRegistry(),
		watches: newWatchRegistry(),
	}
	s.ledger = ledger.New(s.list)
	s.executor = bulk.NewExecutor(
		remote,
		optimisticView{list: s.list, details: s.details},
		s.ledger,
		logger,
		bulk.WithUndoWindow(cfg.UndoWindow),
		bulk.WithConcurrency(cfg.RemoteConcurrency),
	)
	s.reconciler = realtime.New(channel, s.list, s.details, logger, realtime.WithCoalesceTick(cfg.CoalesceTick))

	jm, err := jobs.NewJobManager(s.list, s.reconciler, s.tickets, jobs.Config{
		PollInterval:    cfg.PollInterval,
		TicketRetention: cfg.TicketRetention,
	}, logger)
	if err != nil {
		return nil, err
	}
	s.jobs = jm

	return s, nil
}

// Start loads the list, starts the polling fallback and keeps the realtime
// channel connected until Stop. A failed initial load is logged; polling
// retries it while realtime is down.
func (s *Session) Start(ctx context.Context, creds ports.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrSessionAlreadyStarted
	}
	if err := s.list.Refresh(ctx); err != nil {
		s.logger.Warn("initial list load failed", zap.Error(err))
	}
	if err := s.jobs.StartAll(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.running.Add(1)
	go s.keepConnected(runCtx, creds)

	s.logger.Info("session started", zap.Int("orders", s.list.Len()))
	return nil
}

// Stop disconnects, stops the jobs and waits for running bulk actions to settle.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return ErrSessionNotStarted
	}
	if err := s.closeWatches(ctx); err != nil {
		s.logger.Warn("closing watched orders failed", zap.Error(err))
	}
	cancel()
	s.running.Wait()
	s.jobs.StopAll()

	err := s.executor.Wait(ctx)
	s.logger.Info("session stopped", zap.Error(err))
	return err
}

func (s *Session) keepConnected(ctx context.Context, creds ports.Credentials) {
	defer s.running.Done()
	for {
		err := s.reconciler.Run(ctx, creds)
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("realtime channel lost, falling back to polling",
			zap.Error(err), zap.Duration("retryIn", s.cfg.ReconnectDelay))

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.ReconnectDelay):
		}
	}
}

// AdminID returns the session's default actor.
func (s *Session) AdminID() string { return s.cfg.AdminID }

// UndoWindow returns how long bulk actions stay undoable.
func (s *Session) UndoWindow() time.Duration { return s.executor.UndoWindow() }

// List returns the unfiltered order list.
func (s *Session) List() []*order.Order { return s.list.Orders() }

// RefreshList refetches the order list.
func (s *Session) RefreshList(ctx context.Context) error { return s.list.Refresh(ctx) }

// Order returns the freshest local copy of orderID, fetching it when the
// session holds none.
func (s *Session) Order(ctx context.Context, orderID string) (*order.Order, error) {
	if o, ok := s.details.Get(orderID); ok {
		return o, nil
	}
	if o, ok := s.list.Get(orderID); ok {
		return o, nil
	}
	return s.remote.Fetch(ctx, orderID)
}

// Connected reports whether realtime events are flowing.
func (s *Session) Connected() bool { return s.reconciler.Connected() }

// RealtimeState returns the realtime connection state.
func (s *Session) RealtimeState() realtime.State { return s.reconciler.State() }

// Rooms returns the order ids with an open detail view.
func (s *Session) Rooms() []string { return s.reconciler.Rooms() }

// ChangeStatus moves orderIDs to target. meta.ChangedBy defaults to the session admin.
func (s *Session) ChangeStatus(
	ctx context.Context,
	orderIDs []string,
	target order.Status,
	meta order.Metadata,
) (*bulk.Ticket, error) {
	t, err := s.executor.Execute(ctx, orderIDs, target, s.withActor(meta))
	if err != nil {
		return nil, err
	}
	s.tickets.add(t)
	return t, nil
}

// AssignDriver assigns driverID to orderIDs.
func (s *Session) AssignDriver(ctx context.Context, orderIDs []string, driverID string) (*bulk.Ticket, error) {
	t, err := s.executor.AssignDriver(ctx, orderIDs, driverID)
	if err != nil {
		return nil, err
	}
	s.tickets.add(t)
	return t, nil
}

// ChangeSubStatus moves one sub-order to target.
func (s *Session) ChangeSubStatus(
	ctx context.Context,
	orderID, subID string,
	target order.Status,
	meta order.Metadata,
) (*bulk.Ticket, error) {
	t, err := s.executor.ChangeSubStatus(ctx, orderID, subID, target, s.withActor(meta))
	if err != nil {
		return nil, err
	}
	s.tickets.add(t)
	return t, nil
}

// Ticket returns a bulk-action ticket by id.
func (s *Session) Ticket(ticketID string) (*bulk.Ticket, error) {
	t, ok := s.tickets.get(ticketID)
	if !ok {
		return nil, errs.NewObjectNotFoundError("ticketId", ticketID)
	}
	return t, nil
}

// Undo undoes the bulk action ticketID.
func (s *Session) Undo(ctx context.Context, ticketID string) (bulk.Result, error) {
	t, err := s.Ticket(ticketID)
	if err != nil {
		return bulk.Result{}, err
	}
	return t.Undo(ctx)
}

func (s *Session) withActor(meta order.Metadata) order.Metadata {
	if meta.ChangedBy == "" {
		meta.ChangedBy = s.cfg.AdminID
	}
	return meta
}

// optimisticView writes optimistic copies to the list and to open details.
type optimisticView struct {
	list    *view.List
	details *view.Details
}

func (v optimisticView) Get(id string) (*order.Order, bool) { return v.list.Get(id) }

func (v optimisticView) Put(orders ...*order.Order) {
	v.list.Put(orders...)
	v.details.Put(orders...)
}

func (v optimisticView) Refresh(ctx context.Context) error { return v.list.Refresh(ctx) }
