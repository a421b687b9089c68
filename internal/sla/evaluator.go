// Package sla decides when tickets breach their response-time target and
// when idle tickets are due for automatic closing. Every decision is a pure
// function of the ticket record and the supplied time.
package sla

import (
	"fmt"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Policy holds the response-time target per priority and the inactivity
// window after which open tickets are closed.
type Policy struct {
	High       time.Duration
	Medium     time.Duration
	Low        time.Duration
	Inactivity time.Duration
}

// DefaultPolicy returns 4h/24h/72h targets and a 168h inactivity window.
func DefaultPolicy() Policy {
	return Policy{
		High:       4 * time.Hour,
		Medium:     24 * time.Hour,
		Low:        72 * time.Hour,
		Inactivity: 168 * time.Hour,
	}
}

// Validate rejects non-positive durations.
func (p Policy) Validate() error {
	for name, d := range map[string]time.Duration{
		"high": p.High, "medium": p.Medium, "low": p.Low, "inactivity": p.Inactivity,
	} {
		if d <= 0 {
			return fmt.Errorf("sla %s threshold must be positive, got %s", name, d)
		}
	}
	return nil
}

// Evaluator applies a Policy.
type Evaluator struct {
	policy Policy
}

// NewEvaluator builds an evaluator for policy.
func NewEvaluator(policy Policy) *Evaluator {
	return &Evaluator{policy: policy}
}

// Policy returns the thresholds in use.
func (e *Evaluator) Policy() Policy {
	return e.policy
}

// Threshold returns the response-time target for priority.
func (e *Evaluator) Threshold(priority domain.TicketPriority) (time.Duration, bool) {
	switch priority {
	case domain.TicketPriorityHigh:
		return e.policy.High, true
	case domain.TicketPriorityMedium:
		return e.policy.Medium, true
	case domain.TicketPriorityLow:
		return e.policy.Low, true
	}
	return 0, false
}

// Overdue reports whether an unclosed ticket has been open longer than its
// priority's target at now. Closed tickets are never overdue.
func (e *Evaluator) Overdue(t *domain.Ticket, now time.Time) bool {
	if t == nil || t.Status == domain.TicketStatusClosed {
		return false
	}
	threshold, ok := e.Threshold(t.Priority)
	if !ok {
		return false
	}
	return now.Sub(t.CreatedAt) > threshold
}

// ShouldFlagBreach reports whether the breach flag must flip to true now.
// Already-flagged tickets return false: the flag is never cleared, and the
// breach is announced once.
func (e *Evaluator) ShouldFlagBreach(t *domain.Ticket, now time.Time) bool {
	return t != nil && !t.SLABreached && e.Overdue(t, now)
}

// ShouldAutoClose reports whether an unclosed ticket has seen no update for
// longer than the inactivity window.
func (e *Evaluator) ShouldAutoClose(t *domain.Ticket, now time.Time) bool {
	if t == nil || t.Status == domain.TicketStatusClosed {
		return false
	}
	return now.Sub(t.UpdatedAt) > e.policy.Inactivity
}

// AutoClosePatch is the update applied to tickets closed for inactivity.
func AutoClosePatch() domain.TicketPatch {
	status := domain.TicketStatusClosed
	comment := domain.AutoCloseComment
	return domain.TicketPatch{Status: &status, LastComment: &comment}
}

// InactiveHours returns whole hours since the ticket's last update.
func InactiveHours(t *domain.Ticket, now time.Time) int {
	if t == nil {
		return 0
	}
	idle := now.Sub(t.UpdatedAt)
	if idle <= 0 {
		return 0
	}
	return int(idle / time.Hour)
}
