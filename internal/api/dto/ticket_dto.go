package dto

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Summary        string                `json:"summary"`
	Description    string                `json:"description"`
	Priority       domain.TicketPriority `json:"priority"`
	Status         domain.TicketStatus   `json:"status"`
	AssigneeID     string                `json:"assignee_id"`
	ReporterEmail  string                `json:"reporter_email"`
	AttachmentLink string                `json:"attachment_link"`
}

// ToInput converts the payload for the dashboard service.
func (r CreateTicketRequest) ToInput() service.TicketCreateInput {
	return service.TicketCreateInput{
		Summary:        r.Summary,
		Description:    r.Description,
		Priority:       r.Priority,
		Status:         r.Status,
		AssigneeID:     r.AssigneeID,
		ReporterEmail:  r.ReporterEmail,
		AttachmentLink: r.AttachmentLink,
	}
}

// UpdateTicketRequest payload. Absent fields are left unchanged.
type UpdateTicketRequest struct {
	Summary        *string                `json:"summary"`
	Description    *string                `json:"description"`
	Priority       *domain.TicketPriority `json:"priority"`
	Status         *domain.TicketStatus   `json:"status"`
	AssigneeID     *string                `json:"assignee_id"`
	ReporterEmail  *string                `json:"reporter_email"`
	LastComment    *string                `json:"last_comment"`
	AttachmentLink *string                `json:"attachment_link"`
}

// ToPatch converts the payload to a ticket patch.
func (r UpdateTicketRequest) ToPatch() domain.TicketPatch {
	return domain.TicketPatch{
		Summary:        r.Summary,
		Description:    r.Description,
		Priority:       r.Priority,
		Status:         r.Status,
		AssigneeID:     r.AssigneeID,
		ReporterEmail:  r.ReporterEmail,
		LastComment:    r.LastComment,
		AttachmentLink: r.AttachmentLink,
	}
}

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	ID             string                `json:"id"`
	TicketID       string                `json:"ticket_id"`
	Summary        string                `json:"summary"`
	Description    string                `json:"description"`
	Priority       domain.TicketPriority `json:"priority"`
	Status         domain.TicketStatus   `json:"status"`
	AssigneeID     string                `json:"assignee_id"`
	ReporterEmail  string                `json:"reporter_email"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	LastComment    string                `json:"last_comment"`
	AttachmentLink string                `json:"attachment_link,omitempty"`
	SLABreached    bool                  `json:"sla_breached"`
	InactiveHours  int                   `json:"inactive_hours"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID,
		TicketID:       t.DisplayID,
		Summary:        t.Summary,
		Description:    t.Description,
		Priority:       t.Priority,
		Status:         t.Status,
		AssigneeID:     t.AssigneeID,
		ReporterEmail:  t.ReporterEmail,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		LastComment:    t.LastComment,
		AttachmentLink: t.AttachmentLink,
		SLABreached:    t.SLABreached,
		InactiveHours:  t.InactiveHours,
	}
}

// NewTicketList maps a slice of tickets.
func NewTicketList(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse represents a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(c domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		Author:    c.Author,
		Content:   c.Content,
		Timestamp: c.Timestamp,
	}
}

// StatsResponse carries aggregate counts.
type StatsResponse struct {
	Total        int            `json:"total"`
	Open         int            `json:"open"`
	InProgress   int            `json:"in_progress"`
	Closed       int            `json:"closed"`
	HighPriority int            `json:"high_priority"`
	SLABreached  int            `json:"sla_breached"`
	ByStatus     map[string]int `json:"by_status"`
	ByPriority   map[string]int `json:"by_priority"`
	ByAgent      map[string]int `json:"by_agent"`
}

// NewStatsResponse maps a snapshot.
func NewStatsResponse(s domain.StatsSnapshot) StatsResponse {
	resp := StatsResponse{
		Total:        s.Total,
		Open:         s.Open,
		InProgress:   s.InProgress,
		Closed:       s.Closed,
		HighPriority: s.HighPriority,
		SLABreached:  s.SLABreached,
		ByStatus:     make(map[string]int, len(s.ByStatus)),
		ByPriority:   make(map[string]int, len(s.ByPriority)),
		ByAgent:      make(map[string]int, len(s.ByAgent)),
	}
	for k, v := range s.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	for k, v := range s.ByPriority {
		resp.ByPriority[string(k)] = v
	}
	for k, v := range s.ByAgent {
		resp.ByAgent[k] = v
	}
	return resp
}

// MaintenanceResponse reports a sweep.
type MaintenanceResponse struct {
	Skipped    bool      `json:"skipped"`
	Breached   []string  `json:"breached"`
	AutoClosed []string  `json:"auto_closed"`
	RanAt      time.Time `json:"ran_at"`
}

// NewMaintenanceResponse maps a report.
func NewMaintenanceResponse(r service.MaintenanceReport) MaintenanceResponse {
	resp := MaintenanceResponse{
		Skipped:    r.Skipped,
		Breached:   r.Breached,
		AutoClosed: r.AutoClosed,
		RanAt:      r.RanAt,
	}
	if resp.Breached == nil {
		resp.Breached = []string{}
	}
	if resp.AutoClosed == nil {
		resp.AutoClosed = []string{}
	}
	return resp
}
