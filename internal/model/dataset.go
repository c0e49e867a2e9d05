package model

import (
	"fmt"
	"sort"
)

// Dataset is a complete snapshot of the tournament inputs as supplied by a
// data-loading collaborator. It is treated as immutable by the engine.
type Dataset struct {
	Groups  []Group        `json:"groups"`
	Teams   []Team         `json:"teams"`
	Rounds  []FixtureRound `json:"rounds"`
	Results []Result       `json:"results"`
}

// Issue describes a malformed record found by Validate. Issues are reported,
// never fatal: the standings calculator skips the offending record.
type Issue struct {
	MatchID string
	GroupID string
	Reason  string
}

func (i Issue) String() string {
	return fmt.Sprintf("match=%s group=%s: %s", i.MatchID, i.GroupID, i.Reason)
}

// Group returns the group with the given id.
func (d *Dataset) Group(id string) (Group, bool) {
	for _, g := range d.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// Team returns the team with the given id.
func (d *Dataset) Team(id string) (Team, bool) {
	for _, t := range d.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// TeamsInGroup returns the group's teams in data-file order.
func (d *Dataset) TeamsInGroup(groupID string) []Team {
	var out []Team
	for _, t := range d.Teams {
		if t.GroupID == groupID {
			out = append(out, t)
		}
	}
	return out
}

// ResultsInGroup returns the group's results in append order.
func (d *Dataset) ResultsInGroup(groupID string) []Result {
	var out []Result
	for _, r := range d.Results {
		if r.GroupID == groupID {
			out = append(out, r)
		}
	}
	return out
}

// ScheduledResultsInGroup returns the group's results that Validate accepts:
// the match is scheduled in the same group and round, and both teams belong
// to the group. Everything else is left out of the engine's inputs.
func (d *Dataset) ScheduledResultsInGroup(groupID string) []Result {
	inGroup := make(map[string]bool)
	for _, t := range d.Teams {
		if t.GroupID == groupID {
			inGroup[t.ID] = true
		}
	}
	scheduled := make(map[string]int)
	for _, r := range d.Rounds {
		if r.GroupID != groupID {
			continue
		}
		for _, m := range r.Matches {
			scheduled[m.ID] = r.Round
		}
	}

	var out []Result
	for _, r := range d.Results {
		if r.GroupID != groupID {
			continue
		}
		round, ok := scheduled[r.MatchID]
		if !ok || round != r.Round {
			continue
		}
		if !inGroup[r.HomeTeamID] || !inGroup[r.AwayTeamID] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RoundsInGroup returns the group's fixture rounds ordered by round number.
func (d *Dataset) RoundsInGroup(groupID string) []FixtureRound {
	var out []FixtureRound
	for _, r := range d.Rounds {
		if r.GroupID == groupID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out
}

// Match looks up a scheduled match by id across every group, returning the
// round it belongs to.
func (d *Dataset) Match(id string) (ScheduledMatch, FixtureRound, bool) {
	for _, r := range d.Rounds {
		for _, m := range r.Matches {
			if m.ID == id {
				return m, r, true
			}
		}
	}
	return ScheduledMatch{}, FixtureRound{}, false
}

// Result returns the recorded result for a match id.
func (d *Dataset) Result(matchID string) (Result, bool) {
	for _, r := range d.Results {
		if r.MatchID == matchID {
			return r, true
		}
	}
	return Result{}, false
}

// Validate reports results that reference matches, rounds or teams outside
// their group. Callers log the issues; nothing is removed from the dataset.
func (d *Dataset) Validate() []Issue {
	teamGroup := make(map[string]string, len(d.Teams))
	for _, t := range d.Teams {
		teamGroup[t.ID] = t.GroupID
	}
	type matchKey struct{ group, match string }
	scheduled := make(map[matchKey]int)
	for _, r := range d.Rounds {
		for _, m := range r.Matches {
			scheduled[matchKey{r.GroupID, m.ID}] = r.Round
		}
	}

	var issues []Issue
	for _, r := range d.Results {
		if _, ok := d.Group(r.GroupID); !ok {
			issues = append(issues, Issue{r.MatchID, r.GroupID, "unknown group"})
			continue
		}
		round, ok := scheduled[matchKey{r.GroupID, r.MatchID}]
		if !ok {
			issues = append(issues, Issue{r.MatchID, r.GroupID, "match not in any fixture round of the group"})
		} else if round != r.Round {
			issues = append(issues, Issue{r.MatchID, r.GroupID, fmt.Sprintf("round %d does not match fixture round %d", r.Round, round)})
		}
		for _, id := range []string{r.HomeTeamID, r.AwayTeamID} {
			if teamGroup[id] != r.GroupID {
				issues = append(issues, Issue{r.MatchID, r.GroupID, fmt.Sprintf("team %q is not in the group", id)})
			}
		}
	}
	return issues
}
