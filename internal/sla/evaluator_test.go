package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

var t0 = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func openTicket(priority domain.TicketPriority) *domain.Ticket {
	return &domain.Ticket{
		Priority:  priority,
		Status:    domain.TicketStatusOpen,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

func TestBreachThresholdsByPriority(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())

	cases := []struct {
		priority domain.TicketPriority
		before   time.Duration
		after    time.Duration
	}{
		{domain.TicketPriorityHigh, 3 * time.Hour, 5 * time.Hour},
		{domain.TicketPriorityMedium, 23 * time.Hour, 25 * time.Hour},
		{domain.TicketPriorityLow, 71 * time.Hour, 73 * time.Hour},
	}
	for _, tc := range cases {
		t.Run(string(tc.priority), func(t *testing.T) {
			ticket := openTicket(tc.priority)
			assert.False(t, e.ShouldFlagBreach(ticket, t0.Add(tc.before)))
			assert.True(t, e.ShouldFlagBreach(ticket, t0.Add(tc.after)))
		})
	}
}

func TestBreachIsStrictlyGreaterThanThreshold(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	ticket := openTicket(domain.TicketPriorityHigh)

	assert.False(t, e.Overdue(ticket, t0.Add(4*time.Hour)))
	assert.True(t, e.Overdue(ticket, t0.Add(4*time.Hour+time.Second)))
}

func TestClosedTicketsNeverBreach(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	ticket := openTicket(domain.TicketPriorityHigh)
	ticket.Status = domain.TicketStatusClosed

	assert.False(t, e.ShouldFlagBreach(ticket, t0.Add(100*time.Hour)))
}

func TestAlreadyBreachedIsNotFlaggedAgain(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	ticket := openTicket(domain.TicketPriorityHigh)
	ticket.SLABreached = true

	assert.True(t, e.Overdue(ticket, t0.Add(5*time.Hour)))
	assert.False(t, e.ShouldFlagBreach(ticket, t0.Add(5*time.Hour)))
}

func TestUnknownPriorityNeverBreaches(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	ticket := openTicket(domain.TicketPriority("Critical"))
	assert.False(t, e.ShouldFlagBreach(ticket, t0.Add(1000*time.Hour)))
}

func TestAutoCloseMeasuresFromLastUpdate(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())

	idle := openTicket(domain.TicketPriorityLow)
	assert.True(t, e.ShouldAutoClose(idle, t0.Add(169*time.Hour)))
	assert.False(t, e.ShouldAutoClose(idle, t0.Add(168*time.Hour)))

	touched := openTicket(domain.TicketPriorityLow)
	touched.UpdatedAt = t0.Add(100 * time.Hour)
	assert.False(t, e.ShouldAutoClose(touched, t0.Add(169*time.Hour)))

	closed := openTicket(domain.TicketPriorityLow)
	closed.Status = domain.TicketStatusClosed
	assert.False(t, e.ShouldAutoClose(closed, t0.Add(1000*time.Hour)))
}

func TestAutoClosePatch(t *testing.T) {
	patch := AutoClosePatch()
	require.NotNil(t, patch.Status)
	require.NotNil(t, patch.LastComment)
	assert.Equal(t, domain.TicketStatusClosed, *patch.Status)
	assert.Equal(t, domain.AutoCloseComment, *patch.LastComment)
	assert.Nil(t, patch.Priority)
}

func TestInactiveHours(t *testing.T) {
	ticket := openTicket(domain.TicketPriorityMedium)
	assert.Equal(t, 0, InactiveHours(ticket, t0))
	assert.Equal(t, 2, InactiveHours(ticket, t0.Add(2*time.Hour+59*time.Minute)))
	assert.Equal(t, 0, InactiveHours(ticket, t0.Add(-time.Hour)))
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	bad := DefaultPolicy()
	bad.Medium = 0
	assert.Error(t, bad.Validate())
}
