package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/clock"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	"github.com/spec-kit/ticket-dashboard/internal/sla"
	"github.com/spec-kit/ticket-dashboard/internal/stats"
	"github.com/spec-kit/ticket-dashboard/internal/ticketid"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// DefaultCreateComment is stored as LastComment when a ticket is created without one.
const DefaultCreateComment = "Ticket created"

// TicketService is the ticket store: it owns the collection and runs id
// assignment, SLA evaluation and event emission on every mutation.
// Mutations are serialized; reads return copies.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	ids        *ticketid.Generator
	sla        *sla.Evaluator
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *observability.Metrics

	mu          sync.Mutex
	maintaining atomic.Bool
}

// TicketDependencies bundles collaborators for the ticket store.
// Nil fields fall back to in-memory defaults.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	IDs         *ticketid.Generator
	SLA         *sla.Evaluator
	Dispatcher  events.Dispatcher
	Clock       clock.Clock
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Summary        string
	Description    string
	Priority       domain.TicketPriority
	Status         domain.TicketStatus
	AssigneeID     string
	ReporterEmail  string
	LastComment    string
	AttachmentLink string
}

// UpdateGuard is checked against the current record, under the store lock,
// before a mutation is applied. A non-nil error aborts the mutation.
type UpdateGuard func(current *domain.Ticket) error

// MaintenanceReport lists what a sweep changed, by display id.
type MaintenanceReport struct {
	Skipped    bool
	Breached   []string
	AutoClosed []string
	RanAt      time.Time
}

// NewTicketService constructs the store.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		ids:        deps.IDs,
		sla:        deps.SLA,
		dispatcher: deps.Dispatcher,
		clock:      deps.Clock,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
	if s.tickets == nil {
		s.tickets = repository.NewMemoryTicketRepository()
	}
	if s.comments == nil {
		s.comments = repository.NewMemoryCommentRepository()
	}
	if s.ids == nil {
		s.ids = ticketid.NewGenerator(ticketid.DefaultPrefix)
	}
	if s.sla == nil {
		s.sla = sla.NewEvaluator(sla.DefaultPolicy())
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// CreateTicket validates input, assigns both ids and stores the ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	now := s.clock.Now()
	ticket := domain.Ticket{
		ID:             uuid.NewString(),
		DisplayID:      s.ids.Next(),
		Summary:        strings.TrimSpace(input.Summary),
		Description:    strings.TrimSpace(input.Description),
		Priority:       input.Priority,
		Status:         input.Status,
		AssigneeID:     strings.TrimSpace(input.AssigneeID),
		ReporterEmail:  strings.TrimSpace(input.ReporterEmail),
		CreatedAt:      now,
		UpdatedAt:      now,
		LastComment:    input.LastComment,
		AttachmentLink: strings.TrimSpace(input.AttachmentLink),
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	if ticket.LastComment == "" {
		ticket.LastComment = DefaultCreateComment
	}
	err := s.tickets.Insert(ctx, ticket)
	s.mu.Unlock()
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Debug("ticket created", zap.String("ticket_id", ticket.ID), zap.String("display_id", ticket.DisplayID))
	s.publish(ctx, []events.Event{newEvent(events.EventTicketCreated, ticket, nil)})
	return &ticket, nil
}

// UpdateTicket merges patch onto the ticket and always refreshes UpdatedAt.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	return s.UpdateTicketIf(ctx, id, patch, nil)
}

// UpdateTicketIf is UpdateTicket with a guard evaluated atomically against
// the stored record.
func (s *TicketService) UpdateTicketIf(ctx context.Context, id string, patch domain.TicketPatch, guard UpdateGuard) (*domain.Ticket, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	updated, evts, err := s.applyUpdateLocked(ctx, id, patch, guard)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts)
	return s.withInactivity(updated), nil
}

// DeleteTicket removes the ticket and its comments. It reports false when
// no ticket has id.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.tickets.Delete(ctx, id)
	if err != nil {
		return false, apperrors.MapError(err)
	}
	if !deleted {
		return false, nil
	}
	if err := s.comments.DeleteByTicket(ctx, id); err != nil {
		s.logger.Warn("drop comments of deleted ticket", zap.String("ticket_id", id), zap.Error(err))
	}
	s.logger.Debug("ticket deleted", zap.String("ticket_id", id))
	return true, nil
}

// GetTicket returns a copy of the ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketErr(err, id)
	}
	return s.withInactivity(ticket), nil
}

// ListTickets returns tickets matching filter, newest first.
func (s *TicketService) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	now := s.clock.Now()
	for i := range tickets {
		tickets[i].InactiveHours = sla.InactiveHours(&tickets[i], now)
	}
	return tickets, nil
}

// Stats recomputes the snapshot over the whole collection.
func (s *TicketService) Stats(ctx context.Context) (domain.StatsSnapshot, error) {
	tickets, err := s.tickets.List(ctx, domain.TicketFilter{})
	if err != nil {
		return domain.StatsSnapshot{}, apperrors.MapError(err)
	}
	snapshot := stats.Aggregate(tickets)
	s.metrics.ObserveStats(snapshot)
	return snapshot, nil
}

// AddComment appends to the ticket's log and records content as its last
// comment through the regular update path.
func (s *TicketService) AddComment(ctx context.Context, ticketID, author, content string, guard UpdateGuard) (*domain.Comment, *domain.Ticket, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, apperrors.NewValidationFailed(map[string]string{"content": "comment cannot be empty"})
	}

	s.mu.Lock()
	updated, evts, err := s.applyUpdateLocked(ctx, ticketID, domain.TicketPatch{LastComment: &content}, guard)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	comment := domain.Comment{
		ID:        uuid.NewString(),
		TicketID:  updated.ID,
		Author:    author,
		Content:   content,
		Timestamp: updated.UpdatedAt,
	}
	err = s.comments.Append(ctx, comment)
	s.mu.Unlock()
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.publish(ctx, evts)
	return &comment, s.withInactivity(updated), nil
}

// ListComments returns the ticket's comments, oldest first.
func (s *TicketService) ListComments(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, mapTicketErr(err, ticketID)
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// Import stores pre-existing tickets as-is, without emitting events.
// Missing ids are generated; later display ids continue after the highest
// imported one.
func (s *TicketService) Import(ctx context.Context, tickets []domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tickets {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.DisplayID == "" {
			t.DisplayID = s.ids.Next()
		} else {
			s.ids.Observe(t.DisplayID)
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = s.clock.Now()
		}
		if t.UpdatedAt.Before(t.CreatedAt) {
			t.UpdatedAt = t.CreatedAt
		}
		if t.Priority == "" {
			t.Priority = domain.TicketPriorityMedium
		}
		if t.Status == "" {
			t.Status = domain.TicketStatusOpen
		}
		t.InactiveHours = 0
		if err := s.tickets.Insert(ctx, t); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.NewConflict("ticket already exists", map[string]any{"ticket_id": t.ID, "display_id": t.DisplayID})
			}
			return apperrors.MapError(err)
		}
	}
	return nil
}

// RunMaintenance flags overdue tickets and closes idle ones. Auto-closing
// goes through the same update path as manual edits. A call made while
// another sweep is running returns a Skipped report.
func (s *TicketService) RunMaintenance(ctx context.Context) (MaintenanceReport, error) {
	if !s.maintaining.CompareAndSwap(false, true) {
		s.metrics.RecordMaintenance("skipped", 0, 0)
		return MaintenanceReport{Skipped: true, RanAt: s.clock.Now()}, nil
	}
	defer s.maintaining.Store(false)

	report, evts, err := s.sweep(ctx)
	s.publish(ctx, evts)
	if err != nil {
		s.metrics.RecordMaintenance("failed", len(report.Breached), len(report.AutoClosed))
		return report, err
	}

	s.metrics.RecordMaintenance("completed", len(report.Breached), len(report.AutoClosed))
	s.logger.Info("maintenance sweep finished",
		zap.Strings("breached", report.Breached),
		zap.Strings("auto_closed", report.AutoClosed))
	return report, nil
}

func (s *TicketService) sweep(ctx context.Context) (MaintenanceReport, []events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	report := MaintenanceReport{RanAt: now}
	var evts []events.Event

	tickets, err := s.tickets.List(ctx, domain.TicketFilter{})
	if err != nil {
		return report, nil, apperrors.MapError(err)
	}

	for i := range tickets {
		ticket := tickets[i]
		if ticket.Status == domain.TicketStatusClosed {
			continue
		}

		if s.sla.ShouldFlagBreach(&ticket, now) {
			ticket.SLABreached = true
			if err := s.tickets.Replace(ctx, ticket); err != nil {
				return report, evts, mapTicketErr(err, ticket.ID)
			}
			report.Breached = append(report.Breached, ticket.DisplayID)
			evts = append(evts, newEvent(events.EventSLABreach, ticket, nil))
			s.logger.Warn("sla breached", zap.String("display_id", ticket.DisplayID), zap.String("priority", string(ticket.Priority)))
		}

		if s.sla.ShouldAutoClose(&ticket, now) {
			_, closeEvts, err := s.applyUpdateLocked(ctx, ticket.ID, sla.AutoClosePatch(), nil)
			if err != nil {
				return report, evts, err
			}
			report.AutoClosed = append(report.AutoClosed, ticket.DisplayID)
			evts = append(evts, closeEvts...)
			s.logger.Info("ticket auto-closed", zap.String("display_id", ticket.DisplayID))
		}
	}
	return report, evts, nil
}

// applyUpdateLocked is the single mutation path for existing tickets.
// Callers hold s.mu and publish the returned events after releasing it.
func (s *TicketService) applyUpdateLocked(ctx context.Context, id string, patch domain.TicketPatch, guard UpdateGuard) (domain.Ticket, []events.Event, error) {
	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, nil, mapTicketErr(err, id)
	}
	if guard != nil {
		if err := guard(&current); err != nil {
			return domain.Ticket{}, nil, err
		}
	}

	updated := current
	applyPatch(&updated, patch)

	now := s.clock.Now()
	if now.Before(current.UpdatedAt) {
		now = current.UpdatedAt
	}
	updated.UpdatedAt = now

	statusChanged := updated.Status != current.Status
	assigneeChanged := updated.AssigneeID != current.AssigneeID
	breached := (statusChanged || assigneeChanged) && s.sla.ShouldFlagBreach(&updated, now)
	if breached {
		updated.SLABreached = true
	}

	if err := s.tickets.Replace(ctx, updated); err != nil {
		return domain.Ticket{}, nil, mapTicketErr(err, id)
	}

	var evts []events.Event
	if statusChanged {
		evts = append(evts, newEvent(events.EventStatusChanged, updated, events.StatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: updated.Status,
		}))
	}
	if assigneeChanged {
		evts = append(evts, newEvent(events.EventAssignmentChanged, updated, events.AssignmentChangedPayload{
			OldAssigneeID: current.AssigneeID,
			NewAssigneeID: updated.AssigneeID,
		}))
	}
	if breached {
		evts = append(evts, newEvent(events.EventSLABreach, updated, nil))
		s.logger.Warn("sla breached", zap.String("display_id", updated.DisplayID), zap.String("priority", string(updated.Priority)))
	}
	return updated, evts, nil
}

func applyPatch(t *domain.Ticket, patch domain.TicketPatch) {
	if patch.Summary != nil {
		t.Summary = strings.TrimSpace(*patch.Summary)
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.AssigneeID != nil {
		t.AssigneeID = strings.TrimSpace(*patch.AssigneeID)
	}
	if patch.ReporterEmail != nil {
		t.ReporterEmail = strings.TrimSpace(*patch.ReporterEmail)
	}
	if patch.LastComment != nil {
		t.LastComment = *patch.LastComment
	}
	if patch.AttachmentLink != nil {
		t.AttachmentLink = strings.TrimSpace(*patch.AttachmentLink)
	}
}

func validateCreate(input TicketCreateInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(input.Summary) == "" {
		fields["summary"] = "summary is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		fields["description"] = "description is required"
	}
	if strings.TrimSpace(input.ReporterEmail) == "" {
		fields["reporter_email"] = "reporter email is required"
	}
	if strings.TrimSpace(input.AssigneeID) == "" {
		fields["assignee_id"] = "please assign the ticket to a team member"
	}
	if input.Priority != "" && !input.Priority.Valid() {
		fields["priority"] = "priority must be one of Low, Medium, High"
	}
	if input.Status != "" && !input.Status.Valid() {
		fields["status"] = "status must be one of Open, In Progress, Closed"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationFailed(fields)
	}
	return nil
}

func validatePatch(patch domain.TicketPatch) error {
	fields := map[string]string{}
	blank := func(v *string) bool { return v != nil && strings.TrimSpace(*v) == "" }
	if blank(patch.Summary) {
		fields["summary"] = "summary cannot be empty"
	}
	if blank(patch.Description) {
		fields["description"] = "description cannot be empty"
	}
	if blank(patch.ReporterEmail) {
		fields["reporter_email"] = "reporter email cannot be empty"
	}
	if blank(patch.AssigneeID) {
		fields["assignee_id"] = "assignee cannot be empty"
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		fields["priority"] = "priority must be one of Low, Medium, High"
	}
	if patch.Status != nil && !patch.Status.Valid() {
		fields["status"] = "status must be one of Open, In Progress, Closed"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationFailed(fields)
	}
	return nil
}

func (s *TicketService) withInactivity(t domain.Ticket) *domain.Ticket {
	t.InactiveHours = sla.InactiveHours(&t, s.clock.Now())
	return &t
}

func mapTicketErr(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return apperrors.MapError(err)
}

func newEvent(eventType events.EventType, ticket domain.Ticket, payload interface{}) events.Event {
	return events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		Ticket:   ticket,
		Payload:  payload,
	}
}

func (s *TicketService) publish(ctx context.Context, evts []events.Event) {
	for _, event := range evts {
		s.metrics.RecordTicketEvent(string(event.Type))
		if s.dispatcher == nil {
			continue
		}
		if event.ID == "" {
			event.ID = uuid.NewString()
		}
		if event.Timestamp.IsZero() {
			event.Timestamp = s.clock.Now()
		}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed",
				zap.String("event_type", string(event.Type)),
				zap.String("ticket_id", event.TicketID),
				zap.Error(err))
		}
	}
}
