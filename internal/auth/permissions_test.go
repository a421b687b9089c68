package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

type stubRoster map[string]domain.TeamMember

func (r stubRoster) MemberByID(id string) (domain.TeamMember, bool) {
	m, ok := r[id]
	return m, ok
}

func testRoster() stubRoster {
	return stubRoster{
		"john-doe":      {ID: "john-doe", Name: "John Doe", Email: "john@company.com", Role: domain.RoleAgent},
		"alice-johnson": {ID: "alice-johnson", Name: "Alice Johnson", Email: "alice@company.com", Role: domain.RoleAgent},
	}
}

func testTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: "1", AssigneeID: "john-doe", ReporterEmail: "user@company.com"},
		{ID: "2", AssigneeID: "alice-johnson", ReporterEmail: "admin@company.com"},
		{ID: "3", AssigneeID: "john-doe", ReporterEmail: "feedback@company.com"},
		{ID: "4", AssigneeID: "alice-johnson", ReporterEmail: "user@company.com"},
	}
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func TestPermissionsForRole(t *testing.T) {
	assert.Equal(t,
		[]string{"create_ticket", "edit_all_tickets", "delete_ticket", "view_all_tickets", "manage_users", "view_reports"},
		PermissionsForRole(domain.RoleAdmin).Names())
	assert.Equal(t,
		[]string{"create_ticket", "edit_assigned_tickets", "view_assigned_tickets", "comment_tickets"},
		PermissionsForRole(domain.RoleAgent).Names())
	assert.Equal(t,
		[]string{"create_ticket", "view_own_tickets", "comment_own_tickets"},
		PermissionsForRole(domain.RoleReporter).Names())
	assert.Empty(t, PermissionsForRole(domain.Role("Guest")).Names())
}

func TestFilterVisibleByRole(t *testing.T) {
	e := NewEvaluator(testRoster())
	tickets := testTickets()

	admin := NewUser("admin@company.com", "System Admin", domain.RoleAdmin)
	agent := NewUser("john@company.com", "John Doe", domain.RoleAgent)
	reporter := NewUser("user@company.com", "Regular User", domain.RoleReporter)

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(e.FilterVisible(&admin, tickets)))
	assert.Equal(t, []string{"1", "3"}, ids(e.FilterVisible(&agent, tickets)))
	assert.Equal(t, []string{"1", "4"}, ids(e.FilterVisible(&reporter, tickets)))
	assert.Empty(t, e.FilterVisible(nil, tickets))
}

func TestCanEditTicket(t *testing.T) {
	e := NewEvaluator(testRoster())
	tickets := testTickets()

	admin := NewUser("admin@company.com", "System Admin", domain.RoleAdmin)
	agent := NewUser("john@company.com", "John Doe", domain.RoleAgent)
	reporter := NewUser("user@company.com", "Regular User", domain.RoleReporter)
	nobody := domain.User{Email: "ghost@company.com", Name: "Ghost"}

	assert.True(t, e.CanEditTicket(&admin, &tickets[1]))
	assert.True(t, e.CanEditTicket(&agent, &tickets[0]))
	assert.False(t, e.CanEditTicket(&agent, &tickets[1]))

	// Reporters have no edit grant, not even on their own tickets.
	assert.False(t, e.CanEditTicket(&reporter, &tickets[0]))
	assert.False(t, e.CanEditTicket(&reporter, &tickets[1]))

	for i := range tickets {
		assert.False(t, e.CanEditTicket(&nobody, &tickets[i]))
	}
	assert.False(t, e.CanEditTicket(nil, &tickets[0]))
}

func TestEditOwnTicketsGrant(t *testing.T) {
	e := NewEvaluator(testRoster())
	tickets := testTickets()

	user := NewUser("user@company.com", "Regular User", domain.RoleReporter)
	user.Permissions |= domain.NewPermissionSet(domain.PermEditOwnTickets)

	assert.True(t, e.CanEditTicket(&user, &tickets[0]))
	assert.False(t, e.CanEditTicket(&user, &tickets[1]))
}

func TestAssigneeByEmailWithoutRoster(t *testing.T) {
	e := NewEvaluator(nil)
	agent := NewUser("john@company.com", "John Doe", domain.RoleAgent)

	byEmail := domain.Ticket{AssigneeID: "JOHN@company.com"}
	byMemberID := domain.Ticket{AssigneeID: "john-doe"}

	assert.True(t, e.CanViewTicket(&agent, &byEmail))
	assert.False(t, e.CanViewTicket(&agent, &byMemberID))
}

func TestHasPermission(t *testing.T) {
	e := NewEvaluator(nil)
	reporter := NewUser("user@company.com", "Regular User", domain.RoleReporter)

	assert.True(t, e.HasPermission(&reporter, domain.PermCreateTicket))
	assert.False(t, e.HasPermission(&reporter, domain.PermDeleteTicket))
	assert.False(t, e.HasPermission(nil, domain.PermCreateTicket))
}
