package session

import (
	"context"
	"errors"
	"sort"
	"sync"

	"orderdesk/internal/pkg/errs"
)

// watchRegistry keeps the detail views opened on behalf of remote clients,
// one per order.
type watchRegistry struct {
	mu    sync.Mutex
	views map[string]*DetailView
}

func newWatchRegistry() *watchRegistry {
	return &watchRegistry{views: map[string]*DetailView{}}
}

// Watch opens a detail view on orderID unless one is already open.
func (s *Session) Watch(ctx context.Context, orderID string) error {
	s.watches.mu.Lock()
	defer s.watches.mu.Unlock()

	if _, ok := s.watches.views[orderID]; ok {
		return nil
	}
	dv, err := s.OpenDetail(ctx, orderID)
	if err != nil {
		return err
	}
	s.watches.views[orderID] = dv
	return nil
}

// Unwatch closes the detail view Watch opened on orderID.
func (s *Session) Unwatch(ctx context.Context, orderID string) error {
	s.watches.mu.Lock()
	dv, ok := s.watches.views[orderID]
	delete(s.watches.views, orderID)
	s.watches.mu.Unlock()

	if !ok {
		return errs.NewObjectNotFoundError("orderId", orderID)
	}
	return dv.Close(ctx)
}

// Watched returns the order ids opened through Watch, sorted.
func (s *Session) Watched() []string {
	s.watches.mu.Lock()
	defer s.watches.mu.Unlock()

	ids := make([]string, 0, len(s.watches.views))
	for id := range s.watches.views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Session) closeWatches(ctx context.Context) error {
	s.watches.mu.Lock()
	views := s.watches.views
	s.watches.views = map[string]*DetailView{}
	s.watches.mu.Unlock()

	var problems []error
	for _, dv := range views {
		problems = append(problems, dv.Close(ctx))
	}
	return errors.Join(problems...)
}
