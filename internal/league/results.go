package league

import (
	"context"
	"errors"
	"fmt"

	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/store"
)

// ResultInput is a submitted score. Group, round and sides come from the
// fixture.
type ResultInput struct {
	MatchID     string         `json:"match_id"`
	HomeScore   int            `json:"home_score"`
	AwayScore   int            `json:"away_score"`
	HomeScorers []model.Scorer `json:"home_scorers,omitempty"`
	AwayScorers []model.Scorer `json:"away_scorers,omitempty"`
}

// Validate checks scores and that scorer goals do not exceed the score.
func (in ResultInput) Validate() error {
	if in.MatchID == "" {
		return fmt.Errorf("match_id is required: %w", ErrInvalid)
	}
	if in.HomeScore < 0 || in.AwayScore < 0 {
		return fmt.Errorf("scores must not be negative: %w", ErrInvalid)
	}
	if n := scorerGoals(in.HomeScorers); n > in.HomeScore {
		return fmt.Errorf("home scorers credit %d goals for a score of %d: %w", n, in.HomeScore, ErrInvalid)
	}
	if n := scorerGoals(in.AwayScorers); n > in.AwayScore {
		return fmt.Errorf("away scorers credit %d goals for a score of %d: %w", n, in.AwayScore, ErrInvalid)
	}
	return nil
}

func scorerGoals(scorers []model.Scorer) int {
	n := 0
	for _, s := range scorers {
		n += s.Goals
	}
	return n
}

// SubmitResult records the result of a scheduled match and returns it as
// stored.
func (s *Service) SubmitResult(ctx context.Context, in ResultInput) (model.Result, error) {
	if s.writer == nil {
		return model.Result{}, ErrReadOnly
	}
	if err := in.Validate(); err != nil {
		return model.Result{}, err
	}
	ds, err := s.snapshot(ctx)
	if err != nil {
		return model.Result{}, err
	}
	m, rnd, ok := ds.Match(in.MatchID)
	if !ok {
		return model.Result{}, fmt.Errorf("match %q: %w", in.MatchID, ErrNotFound)
	}

	res := model.Result{
		MatchID:     m.ID,
		GroupID:     rnd.GroupID,
		Round:       rnd.Round,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		HomeScore:   in.HomeScore,
		AwayScore:   in.AwayScore,
		Played:      true,
		HomeScorers: in.HomeScorers,
		AwayScorers: in.AwayScorers,
	}
	if err := s.writer.AppendResult(ctx, res); err != nil {
		return model.Result{}, mapStoreErr(err)
	}
	s.Invalidate(rnd.GroupID)
	s.logger.Info("result recorded",
		"match_id", res.MatchID,
		"group_id", res.GroupID,
		"score", fmt.Sprintf("%d-%d", res.HomeScore, res.AwayScore),
	)
	return res, nil
}

// EditResult replaces the score of an already recorded result.
func (s *Service) EditResult(ctx context.Context, matchID string, home, away int) (model.Result, error) {
	if s.writer == nil {
		return model.Result{}, ErrReadOnly
	}
	if home < 0 || away < 0 {
		return model.Result{}, fmt.Errorf("scores must not be negative: %w", ErrInvalid)
	}
	groupID, err := s.GroupOfMatch(ctx, matchID)
	if err != nil {
		return model.Result{}, err
	}
	if err := s.writer.EditScore(ctx, matchID, home, away); err != nil {
		return model.Result{}, mapStoreErr(err)
	}
	s.Invalidate(groupID)
	s.logger.Info("result edited",
		"match_id", matchID,
		"group_id", groupID,
		"score", fmt.Sprintf("%d-%d", home, away),
	)

	ds, err := s.snapshot(ctx)
	if err != nil {
		return model.Result{}, err
	}
	res, _ := ds.Result(matchID)
	return res, nil
}

// SaveRounds stores generated fixture rounds and drops affected groups.
func (s *Service) SaveRounds(ctx context.Context, rounds []model.FixtureRound) error {
	if s.writer == nil {
		return ErrReadOnly
	}
	if err := s.writer.SaveRounds(ctx, rounds); err != nil {
		return fmt.Errorf("save rounds: %w", err)
	}
	seen := make(map[string]bool)
	for _, r := range rounds {
		if !seen[r.GroupID] {
			seen[r.GroupID] = true
			s.Invalidate(r.GroupID)
		}
	}
	return nil
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicateResult):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, store.ErrResultNotFound), errors.Is(err, store.ErrUnknownMatch):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
