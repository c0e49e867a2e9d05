// Package model holds the passive records the tournament engine operates on:
// teams, groups, fixture rounds and match results. Nothing in here computes
// standings; see package standings for that.
package model

import "time"

// --------------------------------------------------------------------------
// Teams & groups
// --------------------------------------------------------------------------

// Player is a roster entry. Rosters are optional in data files.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Starter bool   `json:"starter,omitempty"`
}

// Team is a club competing in exactly one group.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	GroupID string   `json:"group_id"`
	Players []Player `json:"players,omitempty"`
}

// Group is a round-robin pool of teams.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// --------------------------------------------------------------------------
// Fixtures
// --------------------------------------------------------------------------

// ScheduledMatch is one pairing inside a fixture round.
type ScheduledMatch struct {
	ID         string    `json:"id"`
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	Kickoff    time.Time `json:"kickoff,omitzero"`
	Venue      string    `json:"venue,omitempty"`
}

// Involves reports whether teamID plays in the match.
func (m ScheduledMatch) Involves(teamID string) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

// Opponent returns the other side of the match for teamID and whether
// teamID is the home side. ok is false if the team does not play.
func (m ScheduledMatch) Opponent(teamID string) (opponent string, home bool, ok bool) {
	switch teamID {
	case m.HomeTeamID:
		return m.AwayTeamID, true, true
	case m.AwayTeamID:
		return m.HomeTeamID, false, true
	}
	return "", false, false
}

// FixtureRound is one scheduled batch ("gameweek") of matches in a group.
// Round numbers are unique and increasing within a group.
type FixtureRound struct {
	GroupID string           `json:"group_id"`
	Round   int              `json:"round"`
	Matches []ScheduledMatch `json:"matches"`
}

// MatchFor returns the match teamID plays in this round, if any.
func (r FixtureRound) MatchFor(teamID string) (ScheduledMatch, bool) {
	for _, m := range r.Matches {
		if m.Involves(teamID) {
			return m, true
		}
	}
	return ScheduledMatch{}, false
}

// --------------------------------------------------------------------------
// Results
// --------------------------------------------------------------------------

// GoalType classifies a scorer entry.
type GoalType string

const (
	GoalRegular GoalType = "regular"
	GoalPenalty GoalType = "penalty"
	GoalOwnGoal GoalType = "own_goal"
)

// Scorer credits goals to a player.
type Scorer struct {
	PlayerID string   `json:"player_id"`
	Goals    int      `json:"goals"`
	Type     GoalType `json:"type,omitempty"`
}

// Outcome is a match result from one team's point of view.
type Outcome string

const (
	Win  Outcome = "W"
	Draw Outcome = "D"
	Loss Outcome = "L"
)

// Outcomes lists the three personal outcomes in enumeration order.
var Outcomes = []Outcome{Win, Draw, Loss}

// Points awarded for an outcome.
func (o Outcome) Points() int {
	switch o {
	case Win:
		return 3
	case Draw:
		return 1
	}
	return 0
}

// Opposite mirrors the outcome for the other side of the same match.
func (o Outcome) Opposite() Outcome {
	switch o {
	case Win:
		return Loss
	case Loss:
		return Win
	}
	return Draw
}

// String renders the long form used in summaries.
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	case Loss:
		return "loss"
	}
	return string(o)
}

// Result is a recorded match score. Results are appended and only ever
// mutated through an explicit score edit.
type Result struct {
	MatchID     string   `json:"match_id"`
	GroupID     string   `json:"group_id"`
	Round       int      `json:"round"`
	HomeTeamID  string   `json:"home_team_id"`
	AwayTeamID  string   `json:"away_team_id"`
	HomeScore   int      `json:"home_score"`
	AwayScore   int      `json:"away_score"`
	Played      bool     `json:"played"`
	HomeScorers []Scorer `json:"home_scorers,omitempty"`
	AwayScorers []Scorer `json:"away_scorers,omitempty"`
}

// OutcomeFor returns the result from teamID's perspective. ok is false when
// the team did not take part.
func (r Result) OutcomeFor(teamID string) (Outcome, bool) {
	var own, other int
	switch teamID {
	case r.HomeTeamID:
		own, other = r.HomeScore, r.AwayScore
	case r.AwayTeamID:
		own, other = r.AwayScore, r.HomeScore
	default:
		return "", false
	}
	switch {
	case own > other:
		return Win, true
	case own < other:
		return Loss, true
	}
	return Draw, true
}
