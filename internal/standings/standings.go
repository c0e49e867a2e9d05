// Package standings computes league tables from teams and played results.
//
// Tables are derived on every call and never persisted. Ordering follows a
// strict tie-break chain: points, goal difference, goals scored, total
// head-to-head wins, then team name.
package standings

import (
	"sort"

	"github.com/albapepper/scoracle-tournament/internal/model"
)

// Row is one team's computed table entry.
type Row struct {
	Position       int             `json:"position"`
	TeamID         string          `json:"team_id"`
	TeamName       string          `json:"team_name"`
	Played         int             `json:"played"`
	Wins           int             `json:"wins"`
	Draws          int             `json:"draws"`
	Losses         int             `json:"losses"`
	GoalsFor       int             `json:"goals_for"`
	GoalsAgainst   int             `json:"goals_against"`
	GoalDiff       int             `json:"goal_diff"`
	Points         int             `json:"points"`
	History        []model.Outcome `json:"history"`
	HeadToHeadWins map[string]int  `json:"head_to_head_wins"`
}

// TotalHeadToHeadWins sums the per-opponent win counter.
func (r Row) TotalHeadToHeadWins() int {
	n := 0
	for _, w := range r.HeadToHeadWins {
		n += w
	}
	return n
}

// Clone returns a deep copy so callers can mutate rows without touching the
// original table.
func (r Row) Clone() Row {
	c := r
	c.History = append([]model.Outcome(nil), r.History...)
	c.HeadToHeadWins = make(map[string]int, len(r.HeadToHeadWins))
	for k, v := range r.HeadToHeadWins {
		c.HeadToHeadWins[k] = v
	}
	return c
}

// CloneAll deep-copies a table.
func CloneAll(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// Compute builds the ordered table for one group.
func Compute(teams []model.Team, results []model.Result) []Row {
	return compute(teams, results, 0, false)
}

// ComputeExcluding builds the table as if round had not been played. Used
// for "what the table looked like before round N".
func ComputeExcluding(teams []model.Team, results []model.Result, round int) []Row {
	return compute(teams, results, round, true)
}

func compute(teams []model.Team, results []model.Result, excludeRound int, exclude bool) []Row {
	if len(teams) == 0 {
		return []Row{}
	}

	rows := make([]Row, len(teams))
	index := make(map[string]int, len(teams))
	for i, t := range teams {
		rows[i] = Row{
			TeamID:         t.ID,
			TeamName:       t.Name,
			History:        []model.Outcome{},
			HeadToHeadWins: map[string]int{},
		}
		index[t.ID] = i
	}

	for _, res := range results {
		if exclude && res.Round == excludeRound {
			continue
		}
		accumulate(rows, index, res)
	}

	Sort(rows)
	return rows
}

// Apply adds one result's contribution to an existing table and re-sorts
// it. Results that are unplayed or reference unknown teams are ignored.
func Apply(rows []Row, res model.Result) {
	index := make(map[string]int, len(rows))
	for i, r := range rows {
		index[r.TeamID] = i
	}
	accumulate(rows, index, res)
	Sort(rows)
}

// ApplyAll adds several results to an existing table and sorts once.
func ApplyAll(rows []Row, results []model.Result) {
	index := make(map[string]int, len(rows))
	for i, r := range rows {
		index[r.TeamID] = i
	}
	for _, res := range results {
		accumulate(rows, index, res)
	}
	Sort(rows)
}

func accumulate(rows []Row, index map[string]int, res model.Result) bool {
	if !res.Played || res.HomeTeamID == res.AwayTeamID {
		return false
	}
	hi, okHome := index[res.HomeTeamID]
	ai, okAway := index[res.AwayTeamID]
	if !okHome || !okAway {
		return false
	}
	home, away := &rows[hi], &rows[ai]

	home.Played++
	away.Played++
	home.GoalsFor += res.HomeScore
	home.GoalsAgainst += res.AwayScore
	away.GoalsFor += res.AwayScore
	away.GoalsAgainst += res.HomeScore

	switch {
	case res.HomeScore > res.AwayScore:
		home.Wins++
		away.Losses++
		home.Points += 3
		home.History = append(home.History, model.Win)
		away.History = append(away.History, model.Loss)
		home.HeadToHeadWins[away.TeamID]++
	case res.HomeScore < res.AwayScore:
		away.Wins++
		home.Losses++
		away.Points += 3
		home.History = append(home.History, model.Loss)
		away.History = append(away.History, model.Win)
		away.HeadToHeadWins[home.TeamID]++
	default:
		home.Draws++
		away.Draws++
		home.Points++
		away.Points++
		home.History = append(home.History, model.Draw)
		away.History = append(away.History, model.Draw)
	}

	home.GoalDiff = home.GoalsFor - home.GoalsAgainst
	away.GoalDiff = away.GoalsFor - away.GoalsAgainst
	return true
}

// Sort orders rows by the tie-break chain and assigns 1-based positions.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return Less(rows[i], rows[j]) })
	for i := range rows {
		rows[i].Position = i + 1
	}
}

// Less reports whether a ranks above b.
func Less(a, b Row) bool {
	switch Decide(a, b) {
	case ByPoints:
		return a.Points > b.Points
	case ByGoalDiff:
		return a.GoalDiff > b.GoalDiff
	case ByGoalsFor:
		return a.GoalsFor > b.GoalsFor
	case ByHeadToHead:
		return a.TotalHeadToHeadWins() > b.TotalHeadToHeadWins()
	case ByName:
		return a.TeamName < b.TeamName
	}
	return false
}

// Find returns the row for teamID.
func Find(rows []Row, teamID string) (Row, bool) {
	for _, r := range rows {
		if r.TeamID == teamID {
			return r, true
		}
	}
	return Row{}, false
}

// Completed reports whether every scheduled match of the group has a played
// result. A single-team group is always complete: no match is possible.
func Completed(teams []model.Team, rounds []model.FixtureRound, results []model.Result) bool {
	if len(teams) == 1 {
		return true
	}
	if len(teams) == 0 || len(rounds) == 0 {
		return false
	}
	played := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Played {
			played[r.MatchID] = true
		}
	}
	for _, rnd := range rounds {
		for _, m := range rnd.Matches {
			if !played[m.ID] {
				return false
			}
		}
	}
	return true
}
