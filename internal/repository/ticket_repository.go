package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when inserting a record whose key is taken.
	ErrDuplicate = errors.New("duplicate record")
)

// TicketRepository holds the authoritative ticket collection.
// Implementations hand out copies; mutating a returned ticket never
// changes stored state.
type TicketRepository interface {
	Insert(ctx context.Context, ticket domain.Ticket) error
	Replace(ctx context.Context, ticket domain.Ticket) error
	GetByID(ctx context.Context, id string) (domain.Ticket, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	Count(ctx context.Context) (int, error)
}

type storedTicket struct {
	ticket domain.Ticket
	seq    uint64
}

type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]storedTicket
	seq     uint64
}

// NewMemoryTicketRepository returns an empty in-process collection.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{tickets: make(map[string]storedTicket)}
}

func (r *memoryTicketRepository) Insert(_ context.Context, ticket domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tickets[ticket.ID]; exists {
		return ErrDuplicate
	}
	for _, stored := range r.tickets {
		if stored.ticket.DisplayID == ticket.DisplayID {
			return ErrDuplicate
		}
	}
	r.seq++
	r.tickets[ticket.ID] = storedTicket{ticket: ticket, seq: r.seq}
	return nil
}

func (r *memoryTicketRepository) Replace(_ context.Context, ticket domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return ErrNotFound
	}
	stored.ticket = ticket
	r.tickets[ticket.ID] = stored
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.tickets[id]
	if !ok {
		return domain.Ticket{}, ErrNotFound
	}
	return stored.ticket, nil
}

func (r *memoryTicketRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return false, nil
	}
	delete(r.tickets, id)
	return true, nil
}

// List returns matching tickets, newest first. Tickets created at the same
// instant keep reverse insertion order.
func (r *memoryTicketRepository) List(_ context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	matched := make([]storedTicket, 0, len(r.tickets))
	for _, stored := range r.tickets {
		if filter.Matches(&stored.ticket) {
			matched = append(matched, stored)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.ticket.CreatedAt.Equal(b.ticket.CreatedAt) {
			return a.ticket.CreatedAt.After(b.ticket.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]domain.Ticket, 0, len(matched))
	for _, stored := range matched {
		result = append(result, stored.ticket)
	}
	return result, nil
}

func (r *memoryTicketRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets), nil
}
