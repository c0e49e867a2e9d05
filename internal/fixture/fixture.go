// Package fixture provides fixture-round helpers: which round is next, how
// many matches each team has left, round-robin generation and the Postgres
// queries backing fixture storage.
package fixture

import (
	"fmt"
	"time"

	"github.com/albapepper/scoracle-tournament/internal/model"
)

// --------------------------------------------------------------------------
// Round lookups
// --------------------------------------------------------------------------

func playedSet(results []model.Result) map[string]bool {
	played := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Played {
			played[r.MatchID] = true
		}
	}
	return played
}

// NextRound returns the lowest-numbered round that still has an unplayed
// match. rounds must belong to a single group.
func NextRound(rounds []model.FixtureRound, results []model.Result) (model.FixtureRound, bool) {
	played := playedSet(results)
	var next model.FixtureRound
	found := false
	for _, rnd := range rounds {
		for _, m := range rnd.Matches {
			if !played[m.ID] {
				if !found || rnd.Round < next.Round {
					next, found = rnd, true
				}
				break
			}
		}
	}
	return next, found
}

// PendingRound returns rnd without the matches that already have a played
// result, so a partly played round only offers what is still open.
func PendingRound(rnd model.FixtureRound, results []model.Result) model.FixtureRound {
	played := playedSet(results)
	out := model.FixtureRound{GroupID: rnd.GroupID, Round: rnd.Round}
	for _, m := range rnd.Matches {
		if !played[m.ID] {
			out.Matches = append(out.Matches, m)
		}
	}
	return out
}

// Round returns the round with the given number.
func Round(rounds []model.FixtureRound, n int) (model.FixtureRound, bool) {
	for _, r := range rounds {
		if r.Round == n {
			return r, true
		}
	}
	return model.FixtureRound{}, false
}

// Unplayed lists every scheduled match without a played result, in round
// order.
func Unplayed(rounds []model.FixtureRound, results []model.Result) []model.ScheduledMatch {
	played := playedSet(results)
	var out []model.ScheduledMatch
	for _, rnd := range rounds {
		for _, m := range rnd.Matches {
			if !played[m.ID] {
				out = append(out, m)
			}
		}
	}
	return out
}

// RemainingMatches counts unplayed matches per team.
func RemainingMatches(rounds []model.FixtureRound, results []model.Result) map[string]int {
	out := make(map[string]int)
	for _, m := range Unplayed(rounds, results) {
		out[m.HomeTeamID]++
		out[m.AwayTeamID]++
	}
	return out
}

// --------------------------------------------------------------------------
// Schedule generation
// --------------------------------------------------------------------------

// GenerateRoundRobin builds a double round-robin schedule with the circle
// method. Odd team counts get a bye each round. The second half mirrors the
// first with home and away swapped. Rounds are interval apart from start.
func GenerateRoundRobin(groupID string, teamIDs []string, start time.Time, interval time.Duration) []model.FixtureRound {
	if len(teamIDs) < 2 {
		return nil
	}
	slots := append([]string(nil), teamIDs...)
	if len(slots)%2 != 0 {
		slots = append(slots, "") // bye
	}
	n := len(slots)
	half := n - 1

	rounds := make([]model.FixtureRound, 0, 2*half)
	for i := 0; i < half; i++ {
		rnd := model.FixtureRound{GroupID: groupID, Round: i + 1}
		for j := 0; j < n/2; j++ {
			home, away := slots[j], slots[n-1-j]
			if home == "" || away == "" {
				continue
			}
			// Alternate the fixed slot's venue so it is not always at home.
			if j == 0 && i%2 == 1 {
				home, away = away, home
			}
			rnd.Matches = append(rnd.Matches, model.ScheduledMatch{HomeTeamID: home, AwayTeamID: away})
		}
		rounds = append(rounds, rnd)

		// Rotate every slot except the first.
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	for i := 0; i < half; i++ {
		first := rounds[i]
		rnd := model.FixtureRound{GroupID: groupID, Round: half + i + 1}
		for _, m := range first.Matches {
			rnd.Matches = append(rnd.Matches, model.ScheduledMatch{HomeTeamID: m.AwayTeamID, AwayTeamID: m.HomeTeamID})
		}
		rounds = append(rounds, rnd)
	}

	for i := range rounds {
		kickoff := start.Add(time.Duration(i) * interval)
		for j := range rounds[i].Matches {
			rounds[i].Matches[j].ID = fmt.Sprintf("%s-r%02d-m%02d", groupID, rounds[i].Round, j+1)
			rounds[i].Matches[j].Kickoff = kickoff
		}
	}
	return rounds
}
