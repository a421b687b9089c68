package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// CommentRepository manages ticket discussion logs.
type CommentRepository interface {
	Append(ctx context.Context, comment domain.Comment) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
	DeleteByTicket(ctx context.Context, ticketID string) error
}

type memoryCommentRepository struct {
	mu       sync.RWMutex
	byTicket map[string][]domain.Comment
}

// NewMemoryCommentRepository builds an in-process comment log.
func NewMemoryCommentRepository() CommentRepository {
	return &memoryCommentRepository{byTicket: make(map[string][]domain.Comment)}
}

func (r *memoryCommentRepository) Append(_ context.Context, comment domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTicket[comment.TicketID] = append(r.byTicket[comment.TicketID], comment)
	return nil
}

// ListByTicket returns comments oldest first.
func (r *memoryCommentRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Comment{}, r.byTicket[ticketID]...), nil
}

func (r *memoryCommentRepository) DeleteByTicket(_ context.Context, ticketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byTicket, ticketID)
	return nil
}
