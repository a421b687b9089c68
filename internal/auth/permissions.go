package auth

import (
	"strings"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

var rolePermissions = map[domain.Role]domain.PermissionSet{
	domain.RoleAdmin: domain.NewPermissionSet(
		domain.PermCreateTicket,
		domain.PermEditAllTickets,
		domain.PermDeleteTicket,
		domain.PermViewAllTickets,
		domain.PermManageUsers,
		domain.PermViewReports,
	),
	domain.RoleAgent: domain.NewPermissionSet(
		domain.PermCreateTicket,
		domain.PermEditAssignedTickets,
		domain.PermViewAssignedTickets,
		domain.PermCommentTickets,
	),
	domain.RoleReporter: domain.NewPermissionSet(
		domain.PermCreateTicket,
		domain.PermViewOwnTickets,
		domain.PermCommentOwnTickets,
	),
}

// PermissionsForRole returns the fixed permission set of a role.
// Unknown roles get an empty set.
func PermissionsForRole(role domain.Role) domain.PermissionSet {
	return rolePermissions[role]
}

// NewUser builds a user carrying its role's permission set.
func NewUser(email, name string, role domain.Role) domain.User {
	return domain.User{
		Email:       email,
		Name:        name,
		Role:        role,
		Permissions: PermissionsForRole(role),
	}
}

// MemberLookup resolves roster entries by id.
type MemberLookup interface {
	MemberByID(id string) (domain.TeamMember, bool)
}

// Evaluator answers capability questions about a user and a ticket.
// A nil user never has any capability.
type Evaluator struct {
	roster MemberLookup
}

// NewEvaluator builds an evaluator. roster may be nil, in which case a
// ticket counts as assigned to a user only when its assignee is the
// user's email.
func NewEvaluator(roster MemberLookup) *Evaluator {
	return &Evaluator{roster: roster}
}

// HasPermission reports whether the user's set contains p.
func (e *Evaluator) HasPermission(user *domain.User, p domain.Permission) bool {
	if user == nil {
		return false
	}
	return user.Permissions.Has(p)
}

// IsAssignee reports whether the ticket is assigned to the user.
func (e *Evaluator) IsAssignee(user *domain.User, ticket *domain.Ticket) bool {
	if user == nil || ticket == nil || ticket.AssigneeID == "" {
		return false
	}
	if strings.EqualFold(ticket.AssigneeID, user.Email) {
		return true
	}
	if e.roster == nil {
		return false
	}
	member, ok := e.roster.MemberByID(ticket.AssigneeID)
	return ok && member.Email != "" && strings.EqualFold(member.Email, user.Email)
}

// IsReporter reports whether the user filed the ticket.
func (e *Evaluator) IsReporter(user *domain.User, ticket *domain.Ticket) bool {
	if user == nil || ticket == nil || ticket.ReporterEmail == "" {
		return false
	}
	return strings.EqualFold(ticket.ReporterEmail, user.Email)
}

// CanEditTicket applies the edit rules: all tickets, assigned tickets, or
// tickets the user reported. No predefined role grants edit_own_tickets;
// the rule still applies to users given that permission explicitly.
func (e *Evaluator) CanEditTicket(user *domain.User, ticket *domain.Ticket) bool {
	if user == nil || ticket == nil {
		return false
	}
	if e.HasPermission(user, domain.PermEditAllTickets) {
		return true
	}
	if e.HasPermission(user, domain.PermEditAssignedTickets) && e.IsAssignee(user, ticket) {
		return true
	}
	if e.HasPermission(user, domain.PermEditOwnTickets) && e.IsReporter(user, ticket) {
		return true
	}
	return false
}

// CanViewTicket applies the visibility rules.
func (e *Evaluator) CanViewTicket(user *domain.User, ticket *domain.Ticket) bool {
	if user == nil || ticket == nil {
		return false
	}
	if e.HasPermission(user, domain.PermViewAllTickets) {
		return true
	}
	if e.HasPermission(user, domain.PermViewAssignedTickets) && e.IsAssignee(user, ticket) {
		return true
	}
	if e.HasPermission(user, domain.PermViewOwnTickets) && e.IsReporter(user, ticket) {
		return true
	}
	return false
}

// FilterVisible returns the tickets the user may see, preserving order.
func (e *Evaluator) FilterVisible(user *domain.User, tickets []domain.Ticket) []domain.Ticket {
	if user == nil {
		return []domain.Ticket{}
	}
	if e.HasPermission(user, domain.PermViewAllTickets) {
		return tickets
	}
	visible := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if e.CanViewTicket(user, &tickets[i]) {
			visible = append(visible, tickets[i])
		}
	}
	return visible
}
