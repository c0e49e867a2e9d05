package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-tournament/internal/fixture"
	"github.com/albapepper/scoracle-tournament/internal/model"
)

// PGStore reads and writes the tournament schema through prepared statements
// registered on every pool connection. Result writes fire the result_changed
// notification from a table trigger.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps a connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Load reads groups, teams, fixtures and results in one pass.
func (s *PGStore) Load(ctx context.Context) (*model.Dataset, error) {
	ds := &model.Dataset{}

	groups, err := s.pool.Query(ctx, "groups_all")
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	ds.Groups, err = pgx.CollectRows(groups, func(row pgx.CollectableRow) (model.Group, error) {
		var g model.Group
		err := row.Scan(&g.ID, &g.Name, &g.Description)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan groups: %w", err)
	}

	teams, err := s.pool.Query(ctx, "teams_all")
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	ds.Teams, err = pgx.CollectRows(teams, func(row pgx.CollectableRow) (model.Team, error) {
		var t model.Team
		err := row.Scan(&t.ID, &t.Name, &t.GroupID, &t.Players)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan teams: %w", err)
	}

	ds.Rounds, err = fixture.ListRounds(ctx, s.pool, "")
	if err != nil {
		return nil, err
	}

	results, err := s.pool.Query(ctx, "results_all")
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	ds.Results, err = pgx.CollectRows(results, func(row pgx.CollectableRow) (model.Result, error) {
		var r model.Result
		err := row.Scan(&r.MatchID, &r.GroupID, &r.Round, &r.HomeTeamID, &r.AwayTeamID,
			&r.HomeScore, &r.AwayScore, &r.Played, &r.HomeScorers, &r.AwayScorers)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan results: %w", err)
	}
	return ds, nil
}

// AppendResult inserts a result for a scheduled match that has none yet.
// Group, round and sides are taken from the fixture row.
func (s *PGStore) AppendResult(ctx context.Context, res model.Result) error {
	if err := checkScores(res.HomeScore, res.AwayScore); err != nil {
		return err
	}

	var (
		group      string
		round      int
		home, away string
	)
	err := s.pool.QueryRow(ctx, "fixture_by_id", res.MatchID).Scan(&group, &round, &home, &away)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrUnknownMatch, res.MatchID)
	}
	if err != nil {
		return fmt.Errorf("lookup fixture %s: %w", res.MatchID, err)
	}

	tag, err := s.pool.Exec(ctx, "result_insert",
		res.MatchID, group, round, home, away,
		res.HomeScore, res.AwayScore, res.Played,
		nonNilScorers(res.HomeScorers), nonNilScorers(res.AwayScorers))
	if err != nil {
		return fmt.Errorf("insert result %s: %w", res.MatchID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateResult, res.MatchID)
	}
	return nil
}

// EditScore replaces the score of an existing result. The statement clears
// a side's scorers when their goals exceed the new score.
func (s *PGStore) EditScore(ctx context.Context, matchID string, home, away int) error {
	if err := checkScores(home, away); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, "result_edit_score", matchID, home, away)
	if err != nil {
		return fmt.Errorf("edit result %s: %w", matchID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrResultNotFound, matchID)
	}
	return nil
}

// SaveRounds upserts generated fixture rounds.
func (s *PGStore) SaveRounds(ctx context.Context, rounds []model.FixtureRound) error {
	return fixture.SaveRounds(ctx, s.pool, rounds)
}

// nonNilScorers keeps the JSONB columns as '[]' rather than 'null'.
func nonNilScorers(s []model.Scorer) []model.Scorer {
	if s == nil {
		return []model.Scorer{}
	}
	return s
}

// Import upserts a whole dataset in one transaction. Existing results are
// left alone; results already recorded for a match are skipped.
func (s *PGStore) Import(ctx context.Context, ds *model.Dataset) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, g := range ds.Groups {
			batch.Queue(`
				INSERT INTO groups (id, name, description) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`,
				g.ID, g.Name, g.Description)
		}
		for _, t := range ds.Teams {
			players := t.Players
			if players == nil {
				players = []model.Player{}
			}
			batch.Queue(`
				INSERT INTO teams (id, name, group_id, players) VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					group_id = EXCLUDED.group_id,
					players = EXCLUDED.players`,
				t.ID, t.Name, t.GroupID, players)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("import groups and teams: %w", err)
		}

		if err := fixture.SaveRoundsTx(ctx, tx, ds.Rounds); err != nil {
			return err
		}

		batch = &pgx.Batch{}
		for _, r := range ds.Results {
			batch.Queue("result_insert",
				r.MatchID, r.GroupID, r.Round, r.HomeTeamID, r.AwayTeamID,
				r.HomeScore, r.AwayScore, r.Played,
				nonNilScorers(r.HomeScorers), nonNilScorers(r.AwayScorers))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("import results: %w", err)
		}
		return nil
	})
}
