package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// DashboardService exposes the store to an acting user, enforcing
// permissions on every call.
type DashboardService struct {
	store  *TicketService
	perms  *auth.Evaluator
	roster repository.TeamRoster
	logger *zap.Logger
}

// DashboardDependencies bundles collaborators for the dashboard.
type DashboardDependencies struct {
	Store  *TicketService
	Perms  *auth.Evaluator
	Roster repository.TeamRoster
	Logger *zap.Logger
}

// NewDashboardService builds the facade.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	d := &DashboardService{
		store:  deps.Store,
		perms:  deps.Perms,
		roster: deps.Roster,
		logger: deps.Logger,
	}
	if d.roster == nil {
		d.roster = repository.NewMemoryTeamRoster()
	}
	if d.perms == nil {
		d.perms = auth.NewEvaluator(d.roster)
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// CreateTicket files a ticket on behalf of user. The reporter defaults to
// the user's email.
func (d *DashboardService) CreateTicket(ctx context.Context, user *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !d.perms.HasPermission(user, domain.PermCreateTicket) {
		return nil, apperrors.NewPermissionDenied("not allowed to create tickets")
	}
	if strings.TrimSpace(input.ReporterEmail) == "" {
		input.ReporterEmail = user.Email
	}
	return d.store.CreateTicket(ctx, input)
}

// UpdateTicket applies patch when user may edit the ticket.
func (d *DashboardService) UpdateTicket(ctx context.Context, user *domain.User, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return d.store.UpdateTicketIf(ctx, id, patch, d.editGuard(user))
}

// DeleteTicket removes a ticket. Requires delete_ticket.
func (d *DashboardService) DeleteTicket(ctx context.Context, user *domain.User, id string) error {
	if user == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !d.perms.HasPermission(user, domain.PermDeleteTicket) {
		return apperrors.NewPermissionDenied("not allowed to delete tickets")
	}
	deleted, err := d.store.DeleteTicket(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	d.logger.Info("ticket deleted", zap.String("ticket_id", id), zap.String("by", user.Email))
	return nil
}

// GetTicket returns one ticket the user may view.
func (d *DashboardService) GetTicket(ctx context.Context, user *domain.User, id string) (*domain.Ticket, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := d.store.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.perms.CanViewTicket(user, ticket) {
		return nil, apperrors.NewPermissionDenied("not allowed to view this ticket")
	}
	return ticket, nil
}

// ListTickets returns the visible tickets matching filter, newest first.
func (d *DashboardService) ListTickets(ctx context.Context, user *domain.User, filter domain.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := d.store.ListTickets(ctx, filter)
	if err != nil {
		return nil, err
	}
	return d.perms.FilterVisible(user, tickets), nil
}

// CanEditTicket reports whether user may edit the ticket.
func (d *DashboardService) CanEditTicket(ctx context.Context, user *domain.User, id string) (bool, error) {
	ticket, err := d.store.GetTicket(ctx, id)
	if err != nil {
		return false, err
	}
	return d.perms.CanEditTicket(user, ticket), nil
}

// HasPermission checks a permission by name. Unknown names are a
// validation failure.
func (d *DashboardService) HasPermission(user *domain.User, name string) (bool, error) {
	p, err := domain.ParsePermission(name)
	if err != nil {
		return false, apperrors.NewValidationFailed(map[string]string{"permission": err.Error()})
	}
	return d.perms.HasPermission(user, p), nil
}

// Stats returns aggregate counts over all tickets.
func (d *DashboardService) Stats(ctx context.Context, user *domain.User) (domain.StatsSnapshot, error) {
	if user == nil {
		return domain.StatsSnapshot{}, apperrors.NewUnauthorized("authentication required")
	}
	return d.store.Stats(ctx)
}

// AddComment records a comment; the commenter must be able to edit the ticket.
func (d *DashboardService) AddComment(ctx context.Context, user *domain.User, ticketID, content string) (*domain.Comment, *domain.Ticket, error) {
	if user == nil {
		return nil, nil, apperrors.NewUnauthorized("authentication required")
	}
	return d.store.AddComment(ctx, ticketID, user.Email, content, d.editGuard(user))
}

// ListComments returns a viewable ticket's comments.
func (d *DashboardService) ListComments(ctx context.Context, user *domain.User, ticketID string) ([]domain.Comment, error) {
	if _, err := d.GetTicket(ctx, user, ticketID); err != nil {
		return nil, err
	}
	return d.store.ListComments(ctx, ticketID)
}

// ListTeam returns the assignable team members.
func (d *DashboardService) ListTeam() []domain.TeamMember {
	return d.roster.List()
}

// RunMaintenance triggers a sweep. Requires edit_all_tickets.
func (d *DashboardService) RunMaintenance(ctx context.Context, user *domain.User) (MaintenanceReport, error) {
	if user == nil {
		return MaintenanceReport{}, apperrors.NewUnauthorized("authentication required")
	}
	if !d.perms.HasPermission(user, domain.PermEditAllTickets) {
		return MaintenanceReport{}, apperrors.NewPermissionDenied("not allowed to run maintenance")
	}
	return d.store.RunMaintenance(ctx)
}

func (d *DashboardService) editGuard(user *domain.User) UpdateGuard {
	return func(current *domain.Ticket) error {
		if !d.perms.CanEditTicket(user, current) {
			return apperrors.NewPermissionDenied("not allowed to edit this ticket")
		}
		return nil
	}
}
