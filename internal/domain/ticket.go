package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// TicketPriorities lists every priority from least to most urgent.
var TicketPriorities = []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// AutoCloseComment is written to LastComment when the maintenance sweep closes a ticket.
const AutoCloseComment = "Auto-closed due to inactivity"

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID             string
	DisplayID      string
	Summary        string
	Description    string
	Priority       TicketPriority
	Status         TicketStatus
	AssigneeID     string
	ReporterEmail  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastComment    string
	AttachmentLink string
	SLABreached    bool
	InactiveHours  int
}

// TicketPatch carries a partial update; nil fields are left untouched.
type TicketPatch struct {
	Summary        *string
	Description    *string
	Priority       *TicketPriority
	Status         *TicketStatus
	AssigneeID     *string
	ReporterEmail  *string
	LastComment    *string
	AttachmentLink *string
}

// Empty reports whether the patch changes nothing.
func (p TicketPatch) Empty() bool {
	return p.Summary == nil && p.Description == nil && p.Priority == nil && p.Status == nil &&
		p.AssigneeID == nil && p.ReporterEmail == nil && p.LastComment == nil && p.AttachmentLink == nil
}

// TicketFilter narrows ticket listings. Empty values and "all" match everything.
type TicketFilter struct {
	Status        string
	Priority      string
	AssigneeID    string
	ReporterEmail string
}

// FilterAll is the wildcard accepted by status, priority and assignee filters.
const FilterAll = "all"

// Matches reports whether the ticket passes every set filter.
func (f TicketFilter) Matches(t *Ticket) bool {
	if f.Status != "" && f.Status != FilterAll && string(t.Status) != f.Status {
		return false
	}
	if f.Priority != "" && f.Priority != FilterAll && string(t.Priority) != f.Priority {
		return false
	}
	if f.AssigneeID != "" && f.AssigneeID != FilterAll && t.AssigneeID != f.AssigneeID {
		return false
	}
	if f.ReporterEmail != "" && t.ReporterEmail != f.ReporterEmail {
		return false
	}
	return true
}
