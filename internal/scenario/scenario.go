// Package scenario answers "what has to happen in the next round for team X
// to reach, keep or lose its place". For each of the team's three possible
// results it enumerates every win/draw/loss combination of the other teams
// within a points gap, re-sorts the table for each combination and
// classifies where the team ends up.
//
// The engine is a pure function over a standings snapshot. It can be run on
// a worker goroutine and abandoned at any time; AnalyzeContext checks the
// context while enumerating.
package scenario

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/predict"
	"github.com/albapepper/scoracle-tournament/internal/profile"
	"github.com/albapepper/scoracle-tournament/internal/standings"
)

const (
	DefaultGapLimit     = 3
	DefaultComboCeiling = 10

	maxDecidingResults = 5
	maxTieBreakNotes   = 3
	ctxCheckEvery      = 1024
)

// Config controls the engine. Zero values fall back to the defaults except
// GapLimit, where zero means "only teams level on points".
type Config struct {
	GapLimit     int
	ComboCeiling int
	Predict      predict.Config
}

// DefaultConfig returns the reference settings.
func DefaultConfig() Config {
	return Config{
		GapLimit:     DefaultGapLimit,
		ComboCeiling: DefaultComboCeiling,
		Predict:      predict.DefaultConfig(),
	}
}

// Kind tags the shape of an Analysis.
type Kind string

const (
	NoData     Kind = "no_data"
	RestRound  Kind = "rest_round"
	Enumerated Kind = "enumerated"
)

// Analysis is the engine's answer for one team and one round.
type Analysis struct {
	Kind            Kind       `json:"kind"`
	TeamID          string     `json:"team_id"`
	Round           int        `json:"round"`
	CurrentPosition int        `json:"current_position,omitempty"`
	Points          int        `json:"points"`
	GapLimit        int        `json:"gap_limit"`
	RelevantTeams   []string   `json:"relevant_teams"`
	RelevantPlaying []string   `json:"relevant_playing,omitempty"`
	Note            string     `json:"note,omitempty"`
	Scenarios       []Scenario `json:"scenarios"`
}

// Relevant returns the rows whose points are within gap of teamID's points,
// in table order. The team itself is always included.
func Relevant(rows []standings.Row, teamID string, gap int) []standings.Row {
	self, ok := standings.Find(rows, teamID)
	if !ok {
		return nil
	}
	var out []standings.Row
	for _, r := range rows {
		d := r.Points - self.Points
		if d < 0 {
			d = -d
		}
		if r.TeamID == teamID || d <= gap {
			out = append(out, r)
		}
	}
	return out
}

// Analyze runs the engine to completion.
func Analyze(teamID string, rows []standings.Row, round model.FixtureRound, profiles map[string]profile.Profile, cfg Config) Analysis {
	a, _ := AnalyzeContext(context.Background(), teamID, rows, round, profiles, cfg)
	return a
}

// AnalyzeContext is Analyze with cancellation. The only error it returns is
// the context's.
func AnalyzeContext(ctx context.Context, teamID string, rows []standings.Row, round model.FixtureRound, profiles map[string]profile.Profile, cfg Config) (Analysis, error) {
	if cfg.ComboCeiling <= 0 {
		cfg.ComboCeiling = DefaultComboCeiling
	}
	if cfg.GapLimit < 0 {
		cfg.GapLimit = 0
	}

	a := Analysis{
		TeamID:        teamID,
		Round:         round.Round,
		GapLimit:      cfg.GapLimit,
		RelevantTeams: []string{},
		Scenarios:     []Scenario{},
	}

	self, ok := standings.Find(rows, teamID)
	if !ok {
		a.Kind = NoData
		a.Note = "team has no standings row"
		return a, nil
	}
	a.CurrentPosition = self.Position
	a.Points = self.Points

	relevant := Relevant(rows, teamID, cfg.GapLimit)
	for _, r := range relevant {
		a.RelevantTeams = append(a.RelevantTeams, r.TeamID)
	}

	match, plays := round.MatchFor(teamID)
	if !plays {
		return restRound(a, relevant, round), nil
	}
	a.Kind = Enumerated

	opponentID, home, _ := match.Opponent(teamID)
	var others []contender
	for _, r := range relevant {
		if r.TeamID == teamID || r.TeamID == opponentID {
			continue
		}
		m, ok := round.MatchFor(r.TeamID)
		if !ok {
			continue
		}
		opp, _, _ := m.Opponent(r.TeamID)
		others = append(others, contender{teamID: r.TeamID, name: r.TeamName, opponentID: opp, opponentName: nameOf(rows, opp)})
	}

	pred := predict.Predict(
		profile.Lookup(profiles, match.HomeTeamID),
		profile.Lookup(profiles, match.AwayTeamID),
		cfg.Predict,
	)

	fx := fixture{matchID: match.ID, opponentID: opponentID, opponentName: nameOf(rows, opponentID), home: home}
	for _, o := range model.Outcomes {
		s, err := evaluate(ctx, rows, self, fx, o, others, cfg.ComboCeiling)
		if err != nil {
			return a, err
		}
		s.OutcomeChance = predict.OutcomeChance(pred, o, home)
		s.Qualifier = qualify(s)
		s.Summary = summarize(s, fx)
		a.Scenarios = append(a.Scenarios, s)
	}
	return a, nil
}

func restRound(a Analysis, relevant []standings.Row, round model.FixtureRound) Analysis {
	a.Kind = RestRound
	a.RelevantPlaying = []string{}
	var names []string
	for _, r := range relevant {
		if r.TeamID == a.TeamID {
			continue
		}
		if _, ok := round.MatchFor(r.TeamID); ok {
			a.RelevantPlaying = append(a.RelevantPlaying, r.TeamID)
			names = append(names, r.TeamName)
		}
	}

	note := fmt.Sprintf("Rest round %d: no match left to play", round.Round)
	if len(names) == 0 {
		note += "; no team within the points gap plays, position is safe"
	} else {
		note += "; rivals in action: " + strings.Join(names, ", ")
	}
	a.Note = note
	a.Scenarios = append(a.Scenarios, Scenario{
		Rest:        true,
		Enumeration: Enumeration{Mode: Complete},
		Counts:      map[Bucket]int{},
		Percentages: map[Bucket]float64{},
		Qualifier:   None,
		Summary:     note,
	})
	return a
}

func nameOf(rows []standings.Row, teamID string) string {
	if r, ok := standings.Find(rows, teamID); ok {
		return r.TeamName
	}
	return teamID
}

// pow3 returns 3^k as a float so large k never overflows.
func pow3(k int) float64 {
	return math.Pow(3, float64(k))
}
