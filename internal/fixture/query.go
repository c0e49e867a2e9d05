package fixture

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-tournament/internal/model"
)

// ListRounds returns a group's fixture rounds ordered by round number.
// An empty group id returns every group's rounds.
func ListRounds(ctx context.Context, pool *pgxpool.Pool, groupID string) ([]model.FixtureRound, error) {
	var groupParam interface{} = groupID
	if groupID == "" {
		groupParam = nil
	}

	rows, err := pool.Query(ctx, "fixtures_by_group", groupParam)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	defer rows.Close()

	var rounds []model.FixtureRound
	for rows.Next() {
		var (
			group string
			round int
			m     model.ScheduledMatch
			venue *string
		)
		if err := rows.Scan(&m.ID, &group, &round, &m.HomeTeamID, &m.AwayTeamID, &m.Kickoff, &venue); err != nil {
			return nil, fmt.Errorf("scan fixture: %w", err)
		}
		if venue != nil {
			m.Venue = *venue
		}
		n := len(rounds)
		if n == 0 || rounds[n-1].GroupID != group || rounds[n-1].Round != round {
			rounds = append(rounds, model.FixtureRound{GroupID: group, Round: round})
			n++
		}
		rounds[n-1].Matches = append(rounds[n-1].Matches, m)
	}
	return rounds, rows.Err()
}

// SaveRounds upserts a generated schedule in a single transaction.
func SaveRounds(ctx context.Context, pool *pgxpool.Pool, rounds []model.FixtureRound) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return SaveRoundsTx(ctx, tx, rounds)
	})
}

// SaveRoundsTx upserts rounds inside an existing transaction.
func SaveRoundsTx(ctx context.Context, tx pgx.Tx, rounds []model.FixtureRound) error {
	batch := &pgx.Batch{}
	for _, rnd := range rounds {
		for _, m := range rnd.Matches {
			batch.Queue(`
				INSERT INTO fixtures (id, group_id, round, home_team_id, away_team_id, kickoff, venue)
				VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
				ON CONFLICT (id) DO UPDATE SET
					round = EXCLUDED.round,
					home_team_id = EXCLUDED.home_team_id,
					away_team_id = EXCLUDED.away_team_id,
					kickoff = EXCLUDED.kickoff,
					venue = EXCLUDED.venue`,
				m.ID, rnd.GroupID, rnd.Round, m.HomeTeamID, m.AwayTeamID, m.Kickoff, m.Venue)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save fixtures: %w", err)
	}
	return nil
}
