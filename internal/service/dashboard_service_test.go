package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

var (
	adminUser    = auth.NewUser("admin@company.com", "Admin User", domain.RoleAdmin)
	agentUser    = auth.NewUser("john@company.com", "John Doe", domain.RoleAgent)
	reporterUser = auth.NewUser("user@company.com", "Regular User", domain.RoleReporter)
)

type dashboardFixture struct {
	*storeFixture
	dash *DashboardService
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	f := newStoreFixture(t)
	roster := repository.NewMemoryTeamRoster(
		domain.TeamMember{ID: "john-doe", Name: "John Doe", Email: "john@company.com", Role: domain.RoleAgent},
		domain.TeamMember{ID: "alice-johnson", Name: "Alice Johnson", Email: "alice@company.com", Role: domain.RoleAgent},
	)
	return &dashboardFixture{
		storeFixture: f,
		dash: NewDashboardService(DashboardDependencies{
			Store:  f.store,
			Roster: roster,
		}),
	}
}

func TestDashboardCreateDefaultsReporter(t *testing.T) {
	f := newDashboardFixture(t)
	input := validInput()
	input.ReporterEmail = ""

	ticket, err := f.dash.CreateTicket(context.Background(), &agentUser, input)
	require.NoError(t, err)
	assert.Equal(t, agentUser.Email, ticket.ReporterEmail)

	_, err = f.dash.CreateTicket(context.Background(), &domain.User{Email: "nobody@company.com"}, validInput())
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	_, err = f.dash.CreateTicket(context.Background(), nil, validInput())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestDashboardUpdatePermissions(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()
	mine := f.create(t, nil)
	theirs := f.create(t, func(in *TicketCreateInput) { in.AssigneeID = "alice-johnson" })

	_, err := f.dash.UpdateTicket(ctx, &agentUser, "missing", domain.TicketPatch{Summary: ptr("x")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	updated, err := f.dash.UpdateTicket(ctx, &agentUser, mine.ID, domain.TicketPatch{Status: ptr(domain.TicketStatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	_, err = f.dash.UpdateTicket(ctx, &agentUser, theirs.ID, domain.TicketPatch{Status: ptr(domain.TicketStatusClosed)})
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	// The reporter filed both tickets but holds no edit permission.
	_, err = f.dash.UpdateTicket(ctx, &reporterUser, mine.ID, domain.TicketPatch{Summary: ptr("mine")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	_, err = f.dash.UpdateTicket(ctx, &adminUser, theirs.ID, domain.TicketPatch{Status: ptr(domain.TicketStatusClosed)})
	assert.NoError(t, err)

	stored, err := f.store.GetTicket(ctx, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
}

func TestDashboardDelete(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	err := f.dash.DeleteTicket(ctx, &agentUser, ticket.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	err = f.dash.DeleteTicket(ctx, &adminUser, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	count, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, f.dash.DeleteTicket(ctx, &adminUser, ticket.ID))
	count, err = f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDashboardVisibility(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()
	reported := f.create(t, nil)
	f.clock.Advance(time.Minute)
	other := f.create(t, func(in *TicketCreateInput) {
		in.AssigneeID = "alice-johnson"
		in.ReporterEmail = "someone@company.com"
	})

	all, err := f.dash.ListTickets(ctx, &adminUser, domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, other.ID, all[0].ID)

	forReporter, err := f.dash.ListTickets(ctx, &reporterUser, domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, forReporter, 1)
	assert.Equal(t, reported.ID, forReporter[0].ID)

	forAgent, err := f.dash.ListTickets(ctx, &agentUser, domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, forAgent, 1)
	assert.Equal(t, reported.ID, forAgent[0].ID)

	filtered, err := f.dash.ListTickets(ctx, &adminUser, domain.TicketFilter{AssigneeID: "alice-johnson"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, other.ID, filtered[0].ID)

	none, err := f.dash.ListTickets(ctx, nil, domain.TicketFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.dash.GetTicket(ctx, &reporterUser, other.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))
	_, err = f.dash.GetTicket(ctx, &reporterUser, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	got, err := f.dash.GetTicket(ctx, &reporterUser, reported.ID)
	require.NoError(t, err)
	assert.Equal(t, reported.DisplayID, got.DisplayID)
}

func TestDashboardComments(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	_, _, err := f.dash.AddComment(ctx, &reporterUser, ticket.ID, "Any update?")
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	comment, updated, err := f.dash.AddComment(ctx, &agentUser, ticket.ID, "Working on it")
	require.NoError(t, err)
	assert.Equal(t, agentUser.Email, comment.Author)
	assert.Equal(t, "Working on it", updated.LastComment)

	comments, err := f.dash.ListComments(ctx, &reporterUser, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
}

func TestDashboardPermissionQueries(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	ok, err := f.dash.HasPermission(&adminUser, "delete_ticket")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.dash.HasPermission(&reporterUser, "delete_ticket")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.dash.HasPermission(&adminUser, "fly_plane")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	can, err := f.dash.CanEditTicket(ctx, &agentUser, ticket.ID)
	require.NoError(t, err)
	assert.True(t, can)

	can, err = f.dash.CanEditTicket(ctx, &reporterUser, ticket.ID)
	require.NoError(t, err)
	assert.False(t, can)
}

func TestDashboardMaintenanceRequiresEditAll(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	_, err := f.dash.RunMaintenance(ctx, &agentUser)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	report, err := f.dash.RunMaintenance(ctx, &adminUser)
	require.NoError(t, err)
	assert.False(t, report.Skipped)
}

func TestDashboardTeamAndStats(t *testing.T) {
	f := newDashboardFixture(t)
	f.create(t, nil)

	team := f.dash.ListTeam()
	require.Len(t, team, 2)
	assert.Equal(t, "Alice Johnson", team[0].Name)

	snapshot, err := f.dash.Stats(context.Background(), &reporterUser)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Total)

	_, err = f.dash.Stats(context.Background(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}
