package fixture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-tournament/internal/model"
)

func rounds() []model.FixtureRound {
	return []model.FixtureRound{
		{GroupID: "g", Round: 1, Matches: []model.ScheduledMatch{
			{ID: "m1", HomeTeamID: "A", AwayTeamID: "B"},
			{ID: "m2", HomeTeamID: "C", AwayTeamID: "D"},
		}},
		{GroupID: "g", Round: 2, Matches: []model.ScheduledMatch{
			{ID: "m3", HomeTeamID: "A", AwayTeamID: "C"},
			{ID: "m4", HomeTeamID: "B", AwayTeamID: "D"},
		}},
	}
}

func played(ids ...string) []model.Result {
	var out []model.Result
	for _, id := range ids {
		out = append(out, model.Result{MatchID: id, Played: true})
	}
	return out
}

func TestNextRound(t *testing.T) {
	next, ok := NextRound(rounds(), nil)
	require.True(t, ok)
	assert.Equal(t, 1, next.Round)

	next, ok = NextRound(rounds(), played("m1"))
	require.True(t, ok)
	assert.Equal(t, 1, next.Round, "round 1 still has m2 outstanding")

	next, ok = NextRound(rounds(), played("m1", "m2", "m4"))
	require.True(t, ok)
	assert.Equal(t, 2, next.Round)

	_, ok = NextRound(rounds(), played("m1", "m2", "m3", "m4"))
	assert.False(t, ok)
}

func TestNextRound_IgnoresUnplayedResults(t *testing.T) {
	res := []model.Result{{MatchID: "m1"}, {MatchID: "m2"}}
	next, ok := NextRound(rounds(), res)
	require.True(t, ok)
	assert.Equal(t, 1, next.Round)
}

func TestPendingRound(t *testing.T) {
	rnd := rounds()[0]

	pending := PendingRound(rnd, played("m1"))
	assert.Equal(t, "g", pending.GroupID)
	assert.Equal(t, 1, pending.Round)
	require.Len(t, pending.Matches, 1)
	assert.Equal(t, "m2", pending.Matches[0].ID)

	_, plays := pending.MatchFor("A")
	assert.False(t, plays, "A already played its round-one match")

	assert.Len(t, PendingRound(rnd, nil).Matches, 2)
	assert.Empty(t, PendingRound(rnd, played("m1", "m2")).Matches)
	assert.Len(t, rnd.Matches, 2, "input round untouched")
}

func TestRemainingMatches(t *testing.T) {
	got := RemainingMatches(rounds(), played("m1"))
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 2, "D": 2}, got)
	assert.Len(t, Unplayed(rounds(), played("m1")), 3)
}

func TestGenerateRoundRobin(t *testing.T) {
	start := time.Date(2026, 8, 1, 15, 0, 0, 0, time.UTC)

	t.Run("even team count", func(t *testing.T) {
		rs := GenerateRoundRobin("g", []string{"A", "B", "C", "D"}, start, 7*24*time.Hour)
		require.Len(t, rs, 6)

		pairs := map[[2]string]int{}
		ids := map[string]bool{}
		for i, r := range rs {
			assert.Equal(t, i+1, r.Round)
			require.Len(t, r.Matches, 2)
			seen := map[string]bool{}
			for _, m := range r.Matches {
				assert.False(t, seen[m.HomeTeamID] || seen[m.AwayTeamID], "team plays twice in round %d", r.Round)
				seen[m.HomeTeamID], seen[m.AwayTeamID] = true, true
				pairs[[2]string{m.HomeTeamID, m.AwayTeamID}]++
				assert.False(t, ids[m.ID])
				ids[m.ID] = true
				assert.Equal(t, start.Add(time.Duration(i)*7*24*time.Hour), m.Kickoff)
			}
		}
		// Every ordered pairing exactly once.
		assert.Len(t, pairs, 12)
		for p, n := range pairs {
			assert.Equal(t, 1, n, "%v", p)
		}
	})

	t.Run("odd team count gets byes", func(t *testing.T) {
		rs := GenerateRoundRobin("g", []string{"A", "B", "C"}, start, time.Hour)
		require.Len(t, rs, 6)
		for _, r := range rs {
			assert.Len(t, r.Matches, 1)
		}
	})

	t.Run("single team has no fixtures", func(t *testing.T) {
		assert.Empty(t, GenerateRoundRobin("g", []string{"A"}, start, time.Hour))
	})
}
