package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func skipIfNoDatabase(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set; skipping postgres roster test")
	}
	return dsn
}

func TestPostgresTeamRosterSeedAndLoad(t *testing.T) {
	dsn := skipIfNoDatabase(t)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS team_members (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            role TEXT NOT NULL,
            avatar TEXT NOT NULL DEFAULT '',
            workload INTEGER NOT NULL DEFAULT 0
        )`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM team_members WHERE id = 'roster-test'`)
	require.NoError(t, err)

	roster := NewPostgresTeamRoster(pool)
	require.NoError(t, roster.Seed(ctx, []domain.TeamMember{
		{ID: "roster-test", Name: "Roster Test", Email: "roster-test@company.com", Role: domain.RoleAgent, Workload: 3},
	}))

	n, err := roster.Load(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	m, ok := roster.MemberByID("roster-test")
	require.True(t, ok)
	assert.Equal(t, domain.RoleAgent, m.Role)
	assert.Equal(t, 3, m.Workload)
}

func TestPostgresTeamRosterWithoutPool(t *testing.T) {
	roster := NewPostgresTeamRoster(nil)
	_, err := roster.Load(context.Background())
	assert.Error(t, err)
	assert.Empty(t, roster.List())
}
