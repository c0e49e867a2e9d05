// Package db provides a pgxpool-based connection pool with prepared statement
// registration, health checking and schema migrations.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-tournament/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Statements maps prepared statement names to SQL. Exported so the store
// and fixture packages document which names they rely on.
var Statements = map[string]string{
	// Health
	"health_check": "SELECT 1",

	// Reference data
	"groups_all": "SELECT id, name, description FROM groups ORDER BY id",
	"teams_all":  "SELECT id, name, group_id, players FROM teams ORDER BY group_id, id",

	// Fixtures (NULL group = all groups)
	"fixtures_by_group": `SELECT id, group_id, round, home_team_id, away_team_id, kickoff, venue
		FROM fixtures
		WHERE $1::text IS NULL OR group_id = $1
		ORDER BY group_id, round, id`,
	"fixture_by_id": "SELECT group_id, round, home_team_id, away_team_id FROM fixtures WHERE id = $1",

	// Results, in append order
	"results_all": `SELECT match_id, group_id, round, home_team_id, away_team_id,
		home_score, away_score, played, home_scorers, away_scorers
		FROM results ORDER BY seq`,
	"result_insert": `INSERT INTO results (match_id, group_id, round, home_team_id, away_team_id,
		home_score, away_score, played, home_scorers, away_scorers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (match_id) DO NOTHING`,
	"result_edit_score": `UPDATE results
		SET home_score = $2, away_score = $3, played = true, updated_at = NOW(),
			home_scorers = CASE
				WHEN (SELECT COALESCE(SUM((e->>'goals')::int), 0) FROM jsonb_array_elements(home_scorers) e) > $2
				THEN '[]'::jsonb ELSE home_scorers END,
			away_scorers = CASE
				WHEN (SELECT COALESCE(SUM((e->>'goals')::int), 0) FROM jsonb_array_elements(away_scorers) e) > $3
				THEN '[]'::jsonb ELSE away_scorers END
		WHERE match_id = $1`,
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range Statements {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
