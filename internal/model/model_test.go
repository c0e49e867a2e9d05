package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() *Dataset {
	return &Dataset{
		Groups: []Group{{ID: "A", Name: "Group A"}},
		Teams: []Team{
			{ID: "ARG", Name: "Argentina", GroupID: "A"},
			{ID: "MEX", Name: "Mexico", GroupID: "A"},
			{ID: "FRA", Name: "France", GroupID: "B"},
		},
		Rounds: []FixtureRound{
			{GroupID: "A", Round: 2, Matches: []ScheduledMatch{{ID: "A-r02-m01", HomeTeamID: "MEX", AwayTeamID: "ARG"}}},
			{GroupID: "A", Round: 1, Matches: []ScheduledMatch{{ID: "A-r01-m01", HomeTeamID: "ARG", AwayTeamID: "MEX"}}},
		},
		Results: []Result{
			{MatchID: "A-r01-m01", GroupID: "A", Round: 1, HomeTeamID: "ARG", AwayTeamID: "MEX", HomeScore: 2, AwayScore: 1, Played: true},
		},
	}
}

func TestOutcomeFor(t *testing.T) {
	r := Result{HomeTeamID: "ARG", AwayTeamID: "MEX", HomeScore: 2, AwayScore: 1}

	o, ok := r.OutcomeFor("ARG")
	require.True(t, ok)
	assert.Equal(t, Win, o)

	o, ok = r.OutcomeFor("MEX")
	require.True(t, ok)
	assert.Equal(t, Loss, o)

	_, ok = r.OutcomeFor("FRA")
	assert.False(t, ok)

	draw := Result{HomeTeamID: "ARG", AwayTeamID: "MEX", HomeScore: 1, AwayScore: 1}
	o, _ = draw.OutcomeFor("MEX")
	assert.Equal(t, Draw, o)
}

func TestOutcomePointsAndOpposite(t *testing.T) {
	assert.Equal(t, 3, Win.Points())
	assert.Equal(t, 1, Draw.Points())
	assert.Equal(t, 0, Loss.Points())

	assert.Equal(t, Loss, Win.Opposite())
	assert.Equal(t, Win, Loss.Opposite())
	assert.Equal(t, Draw, Draw.Opposite())
	assert.Equal(t, "draw", Draw.String())
}

func TestScheduledMatchOpponent(t *testing.T) {
	m := ScheduledMatch{ID: "x", HomeTeamID: "ARG", AwayTeamID: "MEX"}

	opp, home, ok := m.Opponent("MEX")
	require.True(t, ok)
	assert.Equal(t, "ARG", opp)
	assert.False(t, home)

	_, _, ok = m.Opponent("FRA")
	assert.False(t, ok)
	assert.True(t, m.Involves("ARG"))
}

func TestDatasetSelectors(t *testing.T) {
	ds := sampleDataset()

	teams := ds.TeamsInGroup("A")
	require.Len(t, teams, 2)
	assert.Equal(t, "ARG", teams[0].ID)

	rounds := ds.RoundsInGroup("A")
	require.Len(t, rounds, 2)
	assert.Equal(t, 1, rounds[0].Round)
	assert.Equal(t, 2, rounds[1].Round)

	m, round, ok := ds.Match("A-r02-m01")
	require.True(t, ok)
	assert.Equal(t, "MEX", m.HomeTeamID)
	assert.Equal(t, 2, round.Round)

	_, ok = ds.Result("A-r02-m01")
	assert.False(t, ok)
	_, ok = ds.Group("Z")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	t.Run("clean dataset", func(t *testing.T) {
		assert.Empty(t, sampleDataset().Validate())
	})

	t.Run("reports malformed results", func(t *testing.T) {
		ds := sampleDataset()
		ds.Results = append(ds.Results,
			Result{MatchID: "ghost", GroupID: "A", Round: 1, HomeTeamID: "ARG", AwayTeamID: "MEX"},
			Result{MatchID: "A-r02-m01", GroupID: "A", Round: 3, HomeTeamID: "MEX", AwayTeamID: "FRA"},
			Result{MatchID: "B-r01-m01", GroupID: "B", Round: 1, HomeTeamID: "FRA", AwayTeamID: "ARG"},
		)

		issues := ds.Validate()
		require.Len(t, issues, 4)
		assert.Equal(t, "ghost", issues[0].MatchID)
		assert.Contains(t, issues[0].Reason, "not in any fixture round")
		assert.Contains(t, issues[1].Reason, "does not match fixture round")
		assert.Contains(t, issues[2].Reason, `"FRA"`)
		assert.Equal(t, "unknown group", issues[3].Reason)
	})
}

func TestScheduledResultsInGroup(t *testing.T) {
	ds := sampleDataset()
	ds.Results = append(ds.Results,
		Result{MatchID: "ghost", GroupID: "A", Round: 99, HomeTeamID: "MEX", AwayTeamID: "ARG", HomeScore: 5, Played: true},
		Result{MatchID: "A-r02-m01", GroupID: "A", Round: 1, HomeTeamID: "MEX", AwayTeamID: "ARG", Played: true},
	)

	got := ds.ScheduledResultsInGroup("A")
	require.Len(t, got, 1)
	assert.Equal(t, "A-r01-m01", got[0].MatchID)
	assert.Len(t, ds.ResultsInGroup("A"), 3)
}
