package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// TeamRoster is the read-only list of members tickets can be assigned to.
// Lookups are served from memory so permission checks never block.
type TeamRoster interface {
	MemberByID(id string) (domain.TeamMember, bool)
	List() []domain.TeamMember
}

// MemoryTeamRoster serves a fixed set of members.
type MemoryTeamRoster struct {
	mu      sync.RWMutex
	members map[string]domain.TeamMember
}

// NewMemoryTeamRoster builds a roster from members.
func NewMemoryTeamRoster(members ...domain.TeamMember) *MemoryTeamRoster {
	r := &MemoryTeamRoster{}
	r.replace(members)
	return r
}

// MemberByID returns the member with id.
func (r *MemoryTeamRoster) MemberByID(id string) (domain.TeamMember, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	return m, ok
}

// List returns members ordered by name.
func (r *MemoryTeamRoster) List() []domain.TeamMember {
	r.mu.RLock()
	members := make([]domain.TeamMember, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, m)
	}
	r.mu.RUnlock()
	sort.Slice(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].ID < members[j].ID
	})
	return members
}

func (r *MemoryTeamRoster) replace(members []domain.TeamMember) {
	next := make(map[string]domain.TeamMember, len(members))
	for _, m := range members {
		next[m.ID] = m
	}
	r.mu.Lock()
	r.members = next
	r.mu.Unlock()
}

// PostgresTeamRoster caches the team_members table. Call Load at startup
// (and whenever the table changes) to refresh the cache.
type PostgresTeamRoster struct {
	*MemoryTeamRoster
	pool *pgxpool.Pool
}

// NewPostgresTeamRoster builds an empty roster backed by pool.
func NewPostgresTeamRoster(pool *pgxpool.Pool) *PostgresTeamRoster {
	return &PostgresTeamRoster{MemoryTeamRoster: NewMemoryTeamRoster(), pool: pool}
}

// Load replaces the cached members with the table contents and returns
// how many were read.
func (r *PostgresTeamRoster) Load(ctx context.Context) (int, error) {
	if r.pool == nil {
		return 0, errors.New("postgres pool not configured")
	}
	const query = `
        SELECT id, name, email, role, avatar, workload
        FROM team_members ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("query team members: %w", err)
	}
	defer rows.Close()

	var members []domain.TeamMember
	for rows.Next() {
		var (
			m    domain.TeamMember
			role string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &role, &m.Avatar, &m.Workload); err != nil {
			return 0, fmt.Errorf("scan team member: %w", err)
		}
		if m.Role, err = domain.ParseRole(role); err != nil {
			return 0, fmt.Errorf("team member %s: %w", m.ID, err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	r.replace(members)
	return len(members), nil
}

// Seed inserts members that are not in the table yet.
func (r *PostgresTeamRoster) Seed(ctx context.Context, members []domain.TeamMember) error {
	if r.pool == nil {
		return errors.New("postgres pool not configured")
	}
	const query = `
        INSERT INTO team_members (id, name, email, role, avatar, workload)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (id) DO NOTHING`
	for _, m := range members {
		if _, err := r.pool.Exec(ctx, query, m.ID, m.Name, m.Email, string(m.Role), m.Avatar, m.Workload); err != nil {
			return fmt.Errorf("seed team member %s: %w", m.ID, err)
		}
	}
	return nil
}
