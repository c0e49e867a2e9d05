package league

import (
	"context"
	"fmt"
	"hash/fnv"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/scoracle-tournament/internal/fixture"
	"github.com/albapepper/scoracle-tournament/internal/forecast"
	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/predict"
	"github.com/albapepper/scoracle-tournament/internal/profile"
	"github.com/albapepper/scoracle-tournament/internal/scenario"
	"github.com/albapepper/scoracle-tournament/internal/standings"
)

// overviewWorkers caps concurrent group builds in Overview.
const overviewWorkers = 4

// --------------------------------------------------------------------------
// Response shapes
// --------------------------------------------------------------------------

// GroupSummary is one entry of the group listing.
type GroupSummary struct {
	model.Group
	Teams     []model.Team `json:"teams"`
	Played    int          `json:"played_matches"`
	Remaining int          `json:"remaining_matches"`
	NextRound int          `json:"next_round,omitempty"`
	Completed bool         `json:"completed"`
	LeaderID  string       `json:"leader_id,omitempty"`
}

// Table is a group's standings.
type Table struct {
	GroupID       string          `json:"group_id"`
	GroupName     string          `json:"group_name"`
	ExcludedRound int             `json:"excluded_round,omitempty"`
	Completed     bool            `json:"completed"`
	Rows          []standings.Row `json:"rows"`
	TieBreaks     []string        `json:"tie_breaks,omitempty"`
}

// MatchView is a scheduled match with its result when one exists.
type MatchView struct {
	model.ScheduledMatch
	HomeTeamName string        `json:"home_team_name"`
	AwayTeamName string        `json:"away_team_name"`
	Result       *model.Result `json:"result,omitempty"`
}

// RoundView is a fixture round with results attached.
type RoundView struct {
	Round   int         `json:"round"`
	Matches []MatchView `json:"matches"`
}

// Fixtures is a group's full schedule.
type Fixtures struct {
	GroupID   string      `json:"group_id"`
	NextRound int         `json:"next_round,omitempty"`
	Rounds    []RoundView `json:"rounds"`
}

// MatchPrediction is the predictor's view of one scheduled match. For an
// already played match the profiles are built from the table as it stood
// before that round.
type MatchPrediction struct {
	MatchID      string             `json:"match_id"`
	GroupID      string             `json:"group_id"`
	Round        int                `json:"round"`
	HomeTeamID   string             `json:"home_team_id"`
	HomeTeamName string             `json:"home_team_name"`
	AwayTeamID   string             `json:"away_team_id"`
	AwayTeamName string             `json:"away_team_name"`
	Prediction   predict.Prediction `json:"prediction"`
	HomeProfile  profile.Profile    `json:"home_profile"`
	AwayProfile  profile.Profile    `json:"away_profile"`
	Result       *model.Result      `json:"result,omitempty"`
}

// Forecast is a group's season projection.
type Forecast struct {
	GroupID string `json:"group_id"`
	forecast.Projection
}

// ChampionOdds is a group's simulated title chances.
type ChampionOdds struct {
	GroupID   string          `json:"group_id"`
	Runs      int             `json:"runs"`
	Remaining int             `json:"remaining_matches"`
	Odds      []forecast.Odds `json:"odds"`
}

// --------------------------------------------------------------------------
// Queries
// --------------------------------------------------------------------------

// Groups lists every group with its progress.
func (s *Service) Groups(ctx context.Context) ([]GroupSummary, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GroupSummary, 0, len(ds.Groups))
	for _, g := range ds.Groups {
		out = append(out, summarize(ds, g))
	}
	return out, nil
}

// Overview builds every group's table concurrently.
func (s *Service) Overview(ctx context.Context) ([]Table, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]Table, len(ds.Groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewWorkers)
	for i, grp := range ds.Groups {
		g.Go(func() error {
			t, err := s.Standings(gctx, grp.ID, 0)
			if err != nil {
				return fmt.Errorf("group %s: %w", grp.ID, err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Standings returns the ordered table of a group. A positive excludeRound
// leaves that round's results out.
func (s *Service) Standings(ctx context.Context, groupID string, excludeRound int) (Table, error) {
	if excludeRound < 0 {
		return Table{}, fmt.Errorf("exclude round %d: %w", excludeRound, ErrInvalid)
	}
	_, v, err := s.group(ctx, groupID)
	if err != nil {
		return Table{}, err
	}

	rows := v.rows
	if excludeRound > 0 {
		rows = standings.ComputeExcluding(v.teams, v.results, excludeRound)
	}
	t := Table{
		GroupID:       v.group.ID,
		GroupName:     v.group.Name,
		ExcludedRound: excludeRound,
		Completed:     standings.Completed(v.teams, v.rounds, v.results),
		Rows:          rows,
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Points == rows[i].Points {
			t.TieBreaks = append(t.TieBreaks, standings.Explain(rows[i-1], rows[i]))
		}
	}
	return t, nil
}

// Fixtures returns the group's schedule with results attached.
func (s *Service) Fixtures(ctx context.Context, groupID string) (Fixtures, error) {
	ds, v, err := s.group(ctx, groupID)
	if err != nil {
		return Fixtures{}, err
	}
	out := Fixtures{GroupID: groupID, Rounds: make([]RoundView, 0, len(v.rounds))}
	if next, ok := fixture.NextRound(v.rounds, v.results); ok {
		out.NextRound = next.Round
	}
	for _, rnd := range v.rounds {
		rv := RoundView{Round: rnd.Round, Matches: make([]MatchView, 0, len(rnd.Matches))}
		for _, m := range rnd.Matches {
			mv := MatchView{
				ScheduledMatch: m,
				HomeTeamName:   teamName(ds, m.HomeTeamID),
				AwayTeamName:   teamName(ds, m.AwayTeamID),
			}
			if res, ok := v.result(m.ID); ok {
				mv.Result = &res
			}
			rv.Matches = append(rv.Matches, mv)
		}
		out.Rounds = append(out.Rounds, rv)
	}
	return out, nil
}

// Scenarios runs the what-if engine for a team against its group's next
// unplayed round. A negative gap uses the configured gap limit.
func (s *Service) Scenarios(ctx context.Context, teamID string, gap int) (scenario.Analysis, error) {
	groupID, err := s.GroupOfTeam(ctx, teamID)
	if err != nil {
		return scenario.Analysis{}, err
	}
	_, v, err := s.group(ctx, groupID)
	if err != nil {
		return scenario.Analysis{}, err
	}

	cfg := s.settings.Scenario
	if gap >= 0 {
		cfg.GapLimit = gap
	}
	next, ok := fixture.NextRound(v.rounds, v.results)
	if !ok {
		return scenario.Analysis{
			Kind:          scenario.NoData,
			TeamID:        teamID,
			GapLimit:      cfg.GapLimit,
			RelevantTeams: []string{},
			Note:          "no unplayed round remains in the group",
			Scenarios:     []scenario.Scenario{},
		}, nil
	}
	pending := fixture.PendingRound(next, v.results)
	return scenario.AnalyzeContext(ctx, teamID, v.rows, pending, v.profiles, cfg)
}

// Prediction forecasts a single scheduled match.
func (s *Service) Prediction(ctx context.Context, matchID string) (MatchPrediction, error) {
	groupID, err := s.GroupOfMatch(ctx, matchID)
	if err != nil {
		return MatchPrediction{}, err
	}
	ds, v, err := s.group(ctx, groupID)
	if err != nil {
		return MatchPrediction{}, err
	}
	m, rnd, _ := ds.Match(matchID)

	profiles := v.profiles
	res, played := v.result(matchID)
	if played {
		var earlier []model.Result
		for _, r := range v.results {
			if r.Round < rnd.Round {
				earlier = append(earlier, r)
			}
		}
		profiles = profile.BuildAll(standings.Compute(v.teams, earlier))
	}

	home := profile.Lookup(profiles, m.HomeTeamID)
	away := profile.Lookup(profiles, m.AwayTeamID)
	out := MatchPrediction{
		MatchID:      m.ID,
		GroupID:      groupID,
		Round:        rnd.Round,
		HomeTeamID:   m.HomeTeamID,
		HomeTeamName: teamName(ds, m.HomeTeamID),
		AwayTeamID:   m.AwayTeamID,
		AwayTeamName: teamName(ds, m.AwayTeamID),
		Prediction:   predict.Predict(home, away, s.settings.Predict),
		HomeProfile:  home,
		AwayProfile:  away,
	}
	if played {
		out.Result = &res
	}
	return out, nil
}

// Forecast projects the group's season finish.
func (s *Service) Forecast(ctx context.Context, groupID string) (Forecast, error) {
	_, v, err := s.group(ctx, groupID)
	if err != nil {
		return Forecast{}, err
	}
	remaining := fixture.RemainingMatches(v.rounds, v.results)
	return Forecast{GroupID: groupID, Projection: forecast.Project(v.rows, v.profiles, remaining)}, nil
}

// ChampionOdds simulates the group's remaining fixtures. runs <= 0 uses the
// configured run count. The seed is derived from the group and its result
// count, so repeated calls on unchanged data agree.
func (s *Service) ChampionOdds(ctx context.Context, groupID string, runs int) (ChampionOdds, error) {
	if runs > maxSimRuns {
		return ChampionOdds{}, fmt.Errorf("runs %d exceeds %d: %w", runs, maxSimRuns, ErrInvalid)
	}
	if runs <= 0 {
		runs = s.settings.SimRuns
	}
	_, v, err := s.group(ctx, groupID)
	if err != nil {
		return ChampionOdds{}, err
	}

	unplayed := fixture.Unplayed(v.rounds, v.results)
	odds, err := forecast.ChampionOdds(ctx, v.rows, v.profiles, unplayed, forecast.Options{
		Runs:    runs,
		Workers: s.settings.SimWorkers,
		Seed:    simSeed(groupID, len(v.results)),
		Predict: s.settings.Predict,
	})
	if err != nil {
		return ChampionOdds{}, fmt.Errorf("simulate %s: %w", groupID, err)
	}
	return ChampionOdds{GroupID: groupID, Runs: runs, Remaining: len(unplayed), Odds: odds}, nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func summarize(ds *model.Dataset, g model.Group) GroupSummary {
	teams := ds.TeamsInGroup(g.ID)
	rounds := ds.RoundsInGroup(g.ID)
	results := ds.ScheduledResultsInGroup(g.ID)

	sum := GroupSummary{
		Group:     g,
		Teams:     teams,
		Remaining: len(fixture.Unplayed(rounds, results)),
		Completed: standings.Completed(teams, rounds, results),
	}
	if sum.Teams == nil {
		sum.Teams = []model.Team{}
	}
	for _, r := range results {
		if r.Played {
			sum.Played++
		}
	}
	if next, ok := fixture.NextRound(rounds, results); ok {
		sum.NextRound = next.Round
	}
	if rows := standings.Compute(teams, results); len(rows) > 0 {
		sum.LeaderID = rows[0].TeamID
	}
	return sum
}

func teamName(ds *model.Dataset, teamID string) string {
	if t, ok := ds.Team(teamID); ok {
		return t.Name
	}
	return teamID
}

func simSeed(groupID string, results int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(groupID))
	return h.Sum64() ^ uint64(results)
}
