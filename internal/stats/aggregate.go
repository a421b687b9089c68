// Package stats derives dashboard counts from a ticket collection.
package stats

import "github.com/spec-kit/ticket-dashboard/internal/domain"

// Aggregate recomputes every count from tickets. Status and priority
// buckets are always present, zero when empty; ByAgent only holds
// assignees that occur in tickets.
func Aggregate(tickets []domain.Ticket) domain.StatsSnapshot {
	snapshot := domain.StatsSnapshot{
		Total:      len(tickets),
		ByStatus:   make(map[domain.TicketStatus]int, len(domain.TicketStatuses)),
		ByPriority: make(map[domain.TicketPriority]int, len(domain.TicketPriorities)),
		ByAgent:    make(map[string]int),
	}
	for _, status := range domain.TicketStatuses {
		snapshot.ByStatus[status] = 0
	}
	for _, priority := range domain.TicketPriorities {
		snapshot.ByPriority[priority] = 0
	}

	for i := range tickets {
		t := &tickets[i]
		snapshot.ByStatus[t.Status]++
		snapshot.ByPriority[t.Priority]++
		snapshot.ByAgent[t.AssigneeID]++
		if t.Priority == domain.TicketPriorityHigh {
			snapshot.HighPriority++
		}
		if t.SLABreached {
			snapshot.SLABreached++
		}
	}

	snapshot.Open = snapshot.ByStatus[domain.TicketStatusOpen]
	snapshot.InProgress = snapshot.ByStatus[domain.TicketStatusInProgress]
	snapshot.Closed = snapshot.ByStatus[domain.TicketStatusClosed]
	return snapshot
}
