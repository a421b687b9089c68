package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermissionSetRejectsUnknownNames(t *testing.T) {
	set, err := ParsePermissionSet([]string{"create_ticket", "view_own_tickets"})
	require.NoError(t, err)
	assert.True(t, set.Has(PermCreateTicket))
	assert.True(t, set.Has(PermViewOwnTickets))
	assert.False(t, set.Has(PermViewAllTickets))
	assert.Equal(t, []string{"create_ticket", "view_own_tickets"}, set.Names())

	_, err = ParsePermissionSet([]string{"create_ticket", "fly_to_moon"})
	assert.Error(t, err)
}

func TestPermissionStringRoundTrip(t *testing.T) {
	for _, entry := range permissionNames {
		parsed, err := ParsePermission(entry.perm.String())
		require.NoError(t, err)
		assert.Equal(t, entry.perm, parsed)
	}
}

func TestEmptySetHasNothing(t *testing.T) {
	var set PermissionSet
	assert.False(t, set.Has(PermCreateTicket))
	assert.False(t, set.Has(0))
	assert.Empty(t, set.Names())
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" agent ")
	require.NoError(t, err)
	assert.Equal(t, RoleAgent, role)

	_, err = ParseRole("Superuser")
	assert.Error(t, err)
}

func TestTicketFilterMatches(t *testing.T) {
	ticket := &Ticket{
		Status:        TicketStatusOpen,
		Priority:      TicketPriorityHigh,
		AssigneeID:    "john-doe",
		ReporterEmail: "user@company.com",
	}

	assert.True(t, TicketFilter{}.Matches(ticket))
	assert.True(t, TicketFilter{Status: FilterAll, Priority: FilterAll, AssigneeID: FilterAll}.Matches(ticket))
	assert.True(t, TicketFilter{Status: "Open", Priority: "High", AssigneeID: "john-doe", ReporterEmail: "user@company.com"}.Matches(ticket))
	assert.False(t, TicketFilter{Status: "Closed"}.Matches(ticket))
	assert.False(t, TicketFilter{Priority: "Low"}.Matches(ticket))
	assert.False(t, TicketFilter{AssigneeID: "mike-davis"}.Matches(ticket))
	assert.False(t, TicketFilter{ReporterEmail: "all"}.Matches(ticket))
}
