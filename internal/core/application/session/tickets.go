package session

import (
	"sort"
	"sync"
	"time"

	"orderdesk/internal/core/application/bulk"
)

type ticketRegistry struct {
	mu      sync.RWMutex
	tickets map[string]*bulk.Ticket
}

func newTicketRegistry() *ticketRegistry {
	return &ticketRegistry{tickets: map[string]*bulk.Ticket{}}
}

func (r *ticketRegistry) add(t *bulk.Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[t.ID().String()] = t
}

func (r *ticketRegistry) get(id string) (*bulk.Ticket, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickets[id]
	return t, ok
}

// SweepSettled forgets tickets that settled before the cutoff.
func (r *ticketRegistry) SweepSettled(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, t := range r.tickets {
		if t.Settled() && t.Result().SettledAt.Before(before) {
			delete(r.tickets, id)
			removed++
		}
	}
	return removed
}

// Tickets returns the known tickets, newest first.
func (s *Session) Tickets() []*bulk.Ticket {
	s.tickets.mu.RLock()
	out := make([]*bulk.Ticket, 0, len(s.tickets.tickets))
	for _, t := range s.tickets.tickets {
		out = append(out, t)
	}
	s.tickets.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out
}
