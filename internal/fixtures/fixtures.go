// Package fixtures loads seed data for the team roster, the user directory
// and historical tickets from YAML.
package fixtures

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

//go:embed demo.yaml
var demoYAML []byte

// Seed is the decoded content of a fixtures file.
type Seed struct {
	Team    []domain.TeamMember
	Users   []domain.User
	Tickets []domain.Ticket
}

type seedFile struct {
	Team    []memberEntry `yaml:"team"`
	Users   []userEntry   `yaml:"users"`
	Tickets []ticketEntry `yaml:"tickets"`
}

type memberEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	Avatar   string `yaml:"avatar"`
	Workload int    `yaml:"workload"`
}

type userEntry struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	// Permissions overrides the role's set when present.
	Permissions []string `yaml:"permissions"`
}

type ticketEntry struct {
	ID             string `yaml:"id"`
	DisplayID      string `yaml:"display_id"`
	Summary        string `yaml:"summary"`
	Description    string `yaml:"description"`
	Priority       string `yaml:"priority"`
	Status         string `yaml:"status"`
	AssigneeID     string `yaml:"assignee_id"`
	ReporterEmail  string `yaml:"reporter_email"`
	CreatedAt      string `yaml:"created_at"`
	UpdatedAt      string `yaml:"updated_at"`
	LastComment    string `yaml:"last_comment"`
	AttachmentLink string `yaml:"attachment_link"`
	SLABreached    bool   `yaml:"sla_breached"`
}

// Demo returns the built-in demo workspace.
func Demo() (*Seed, error) {
	return Parse(demoYAML)
}

// Load reads a fixtures file. An empty path loads the demo workspace.
func Load(path string) (*Seed, error) {
	if path == "" {
		return Demo()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	seed, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixtures %s: %w", path, err)
	}
	return seed, nil
}

// Parse decodes and validates fixtures YAML.
func Parse(data []byte) (*Seed, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	seed := &Seed{}
	var errs []error

	for i, m := range file.Team {
		role, err := domain.ParseRole(m.Role)
		if err != nil {
			errs = append(errs, fmt.Errorf("team[%d]: %w", i, err))
			continue
		}
		if m.ID == "" {
			errs = append(errs, fmt.Errorf("team[%d]: id is required", i))
			continue
		}
		seed.Team = append(seed.Team, domain.TeamMember{
			ID:       m.ID,
			Name:     m.Name,
			Email:    m.Email,
			Role:     role,
			Avatar:   m.Avatar,
			Workload: m.Workload,
		})
	}

	for i, u := range file.Users {
		role, err := domain.ParseRole(u.Role)
		if err != nil {
			errs = append(errs, fmt.Errorf("users[%d]: %w", i, err))
			continue
		}
		if strings.TrimSpace(u.Email) == "" {
			errs = append(errs, fmt.Errorf("users[%d]: email is required", i))
			continue
		}
		user := auth.NewUser(u.Email, u.Name, role)
		if len(u.Permissions) > 0 {
			set, err := domain.ParsePermissionSet(u.Permissions)
			if err != nil {
				errs = append(errs, fmt.Errorf("users[%d]: %w", i, err))
				continue
			}
			user.Permissions = set
		}
		seed.Users = append(seed.Users, user)
	}

	for i, t := range file.Tickets {
		ticket, err := t.toDomain()
		if err != nil {
			errs = append(errs, fmt.Errorf("tickets[%d]: %w", i, err))
			continue
		}
		seed.Tickets = append(seed.Tickets, ticket)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return seed, nil
}

func (t ticketEntry) toDomain() (domain.Ticket, error) {
	ticket := domain.Ticket{
		ID:             t.ID,
		DisplayID:      t.DisplayID,
		Summary:        t.Summary,
		Description:    t.Description,
		Priority:       domain.TicketPriority(t.Priority),
		Status:         domain.TicketStatus(t.Status),
		AssigneeID:     t.AssigneeID,
		ReporterEmail:  t.ReporterEmail,
		LastComment:    t.LastComment,
		AttachmentLink: t.AttachmentLink,
		SLABreached:    t.SLABreached,
	}
	if ticket.Priority != "" && !ticket.Priority.Valid() {
		return ticket, fmt.Errorf("unknown priority %q", t.Priority)
	}
	if ticket.Status != "" && !ticket.Status.Valid() {
		return ticket, fmt.Errorf("unknown status %q", t.Status)
	}

	var err error
	if ticket.CreatedAt, err = parseTime(t.CreatedAt); err != nil {
		return ticket, fmt.Errorf("created_at: %w", err)
	}
	if ticket.UpdatedAt, err = parseTime(t.UpdatedAt); err != nil {
		return ticket, fmt.Errorf("updated_at: %w", err)
	}
	return ticket, nil
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}
