package events

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated     EventType = "ticket_created"
	EventStatusChanged     EventType = "status_changed"
	EventAssignmentChanged EventType = "assignment_changed"
	EventSLABreach         EventType = "sla_breach"
)

// Event represents a domain event emitted by the ticket store.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	TicketID  string        `json:"ticket_id"`
	Timestamp time.Time     `json:"timestamp"`
	Ticket    domain.Ticket `json:"ticket"`
	Payload   interface{}   `json:"payload,omitempty"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// AssignmentChangedPayload payload.
type AssignmentChangedPayload struct {
	OldAssigneeID string `json:"old_assignee_id"`
	NewAssigneeID string `json:"new_assignee_id"`
}
