package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@host:5432/db?sslmode=disable", migrateURL("postgres://u:p@host:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://host/db", migrateURL("postgresql://host/db"))
	assert.Equal(t, "pgx5://host/db", migrateURL("pgx5://host/db"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_tournament.up.sql")
	assert.Contains(t, names, "000001_tournament.down.sql")
}

func TestEditScoreClearsStaleScorers(t *testing.T) {
	sql := Statements["result_edit_score"]
	assert.Contains(t, sql, "home_scorers = CASE")
	assert.Contains(t, sql, "away_scorers = CASE")
}

func TestStatementsCoverStoreQueries(t *testing.T) {
	for _, name := range []string{
		"health_check", "groups_all", "teams_all", "fixtures_by_group",
		"results_all", "result_insert", "result_edit_score", "fixture_by_id",
	} {
		assert.Contains(t, Statements, name)
	}
}
