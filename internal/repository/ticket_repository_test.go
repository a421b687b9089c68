package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

var base = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func ticketAt(id, display string, created time.Time) domain.Ticket {
	return domain.Ticket{
		ID:            id,
		DisplayID:     display,
		Summary:       "summary " + id,
		Status:        domain.TicketStatusOpen,
		Priority:      domain.TicketPriorityMedium,
		AssigneeID:    "john-doe",
		ReporterEmail: "user@company.com",
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestTicketRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()

	require.NoError(t, repo.Insert(ctx, ticketAt("a", "TKT-0001", base)))
	assert.ErrorIs(t, repo.Insert(ctx, ticketAt("a", "TKT-0009", base)), ErrDuplicate)
	assert.ErrorIs(t, repo.Insert(ctx, ticketAt("b", "TKT-0001", base)), ErrDuplicate)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "TKT-0001", got.DisplayID)

	got.Summary = "changed locally"
	again, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "summary a", again.Summary, "returned tickets are copies")

	got.Summary = "changed"
	require.NoError(t, repo.Replace(ctx, got))
	again, _ = repo.GetByID(ctx, "a")
	assert.Equal(t, "changed", again.Summary)

	assert.ErrorIs(t, repo.Replace(ctx, ticketAt("missing", "TKT-0100", base)), ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, deleted)

	n, _ := repo.Count(ctx)
	assert.Equal(t, 0, n)
}

func TestTicketRepositoryListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()

	older := ticketAt("old", "TKT-0001", base.Add(-time.Hour))
	sameA := ticketAt("a", "TKT-0002", base)
	sameB := ticketAt("b", "TKT-0003", base)
	sameB.Status = domain.TicketStatusClosed
	for _, tk := range []domain.Ticket{older, sameA, sameB} {
		require.NoError(t, repo.Insert(ctx, tk))
	}

	all, err := repo.List(ctx, domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "a", "old"}, []string{all[0].ID, all[1].ID, all[2].ID})

	open, err := repo.List(ctx, domain.TicketFilter{Status: "Open"})
	require.NoError(t, err)
	assert.Len(t, open, 2)
}

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCommentRepository()

	require.NoError(t, repo.Append(ctx, domain.Comment{ID: "c1", TicketID: "t1", Content: "first"}))
	require.NoError(t, repo.Append(ctx, domain.Comment{ID: "c2", TicketID: "t1", Content: "second"}))
	require.NoError(t, repo.Append(ctx, domain.Comment{ID: "c3", TicketID: "t2", Content: "other"}))

	comments, err := repo.ListByTicket(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)

	require.NoError(t, repo.DeleteByTicket(ctx, "t1"))
	comments, _ = repo.ListByTicket(ctx, "t1")
	assert.Empty(t, comments)
}

func TestUserRepositoryCaseInsensitiveEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository(domain.User{Email: "Admin@Company.com", Name: "System Admin", Role: domain.RoleAdmin})

	user, err := repo.GetByEmail(ctx, " admin@company.COM ")
	require.NoError(t, err)
	assert.Equal(t, "System Admin", user.Name)

	_, err = repo.GetByEmail(ctx, "nobody@company.com")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, domain.User{Email: "user@company.com", Role: domain.RoleReporter}))
	users, _ := repo.List(ctx)
	assert.Len(t, users, 2)
}

func TestMemoryTeamRoster(t *testing.T) {
	roster := NewMemoryTeamRoster(
		domain.TeamMember{ID: "mike-davis", Name: "Mike Davis", Email: "mike@company.com"},
		domain.TeamMember{ID: "alice-johnson", Name: "Alice Johnson", Email: "alice@company.com"},
	)

	m, ok := roster.MemberByID("mike-davis")
	require.True(t, ok)
	assert.Equal(t, "mike@company.com", m.Email)

	_, ok = roster.MemberByID("nobody")
	assert.False(t, ok)

	list := roster.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Alice Johnson", list[0].Name)
}
