package scenario

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/profile"
	"github.com/albapepper/scoracle-tournament/internal/standings"
)

// table builds the reference group: A and B level on 9 points and +4, A
// ahead on goals scored; C and D on 7; E and F out of reach.
func table() []standings.Row {
	rows := []standings.Row{
		{TeamID: "A", TeamName: "A", Points: 9, GoalsFor: 10, GoalsAgainst: 6, GoalDiff: 4},
		{TeamID: "B", TeamName: "B", Points: 9, GoalsFor: 8, GoalsAgainst: 4, GoalDiff: 4},
		{TeamID: "C", TeamName: "C", Points: 7, GoalsFor: 6, GoalsAgainst: 5, GoalDiff: 1},
		{TeamID: "D", TeamName: "D", Points: 7, GoalsFor: 5, GoalsAgainst: 5, GoalDiff: 0},
		{TeamID: "E", TeamName: "E", Points: 1, GoalsFor: 2, GoalsAgainst: 9, GoalDiff: -7},
		{TeamID: "F", TeamName: "F", Points: 0, GoalsFor: 1, GoalsAgainst: 3, GoalDiff: -2},
	}
	standings.Sort(rows)
	return rows
}

func round(n int, pairs ...[2]string) model.FixtureRound {
	r := model.FixtureRound{GroupID: "g", Round: n}
	for i, p := range pairs {
		r.Matches = append(r.Matches, model.ScheduledMatch{
			ID:         fmt.Sprintf("r%d-m%d", n, i+1),
			HomeTeamID: p[0],
			AwayTeamID: p[1],
		})
	}
	return r
}

func byOutcome(a Analysis, o model.Outcome) Scenario {
	for _, s := range a.Scenarios {
		if s.Outcome == o {
			return s
		}
	}
	return Scenario{}
}

func total(counts map[Bucket]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

func TestReferenceTableOrder(t *testing.T) {
	rows := table()
	assert.Equal(t, "A", rows[0].TeamID)
	assert.Equal(t, "B", rows[1].TeamID)
	assert.Equal(t, standings.ByGoalsFor, standings.Decide(rows[0], rows[1]))
}

func TestRelevant(t *testing.T) {
	rows := table()
	ids := func(rs []standings.Row) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.TeamID)
		}
		return out
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, ids(Relevant(rows, "A", 3)))
	assert.Equal(t, []string{"A", "B"}, ids(Relevant(rows, "A", 0)))
	assert.Equal(t, []string{"E", "F"}, ids(Relevant(rows, "F", 1)))
	assert.Nil(t, Relevant(rows, "ghost", 3))
}

func TestAnalyze_RestRound(t *testing.T) {
	rows := table()
	a := Analyze("D", rows, round(5, [2]string{"E", "F"}), nil, DefaultConfig())

	assert.Equal(t, RestRound, a.Kind)
	assert.Equal(t, 4, a.CurrentPosition)
	assert.Empty(t, a.RelevantPlaying)
	require.Len(t, a.Scenarios, 1)
	assert.True(t, a.Scenarios[0].Rest)
	assert.Zero(t, a.Scenarios[0].Enumeration.Evaluated)
	assert.Contains(t, a.Note, "position is safe")
}

func TestAnalyze_RestRoundWithRivalsPlaying(t *testing.T) {
	a := Analyze("D", table(), round(5, [2]string{"A", "E"}, [2]string{"B", "F"}), nil, DefaultConfig())

	assert.Equal(t, RestRound, a.Kind)
	assert.Equal(t, []string{"A", "B"}, a.RelevantPlaying)
	assert.Contains(t, a.Note, "rivals in action")
}

func TestAnalyze_LeaderEnumeration(t *testing.T) {
	rows := table()
	rnd := round(5, [2]string{"A", "C"}, [2]string{"B", "E"}, [2]string{"D", "F"})
	a := Analyze("A", rows, rnd, nil, DefaultConfig())

	require.Equal(t, Enumerated, a.Kind)
	assert.Equal(t, []string{"A", "B", "C", "D"}, a.RelevantTeams)
	require.Len(t, a.Scenarios, 3)

	for _, s := range a.Scenarios {
		// C is A's opponent and fixed by A's result; B and D are enumerated.
		assert.Equal(t, Complete, s.Enumeration.Mode)
		assert.Equal(t, 2, s.Enumeration.Others)
		assert.Equal(t, 9, s.Enumeration.Evaluated)
		assert.Equal(t, 9, total(s.Counts), "buckets must partition the combinations")
		assert.Equal(t, "C", s.OpponentID)
		assert.True(t, s.Home)
		assert.NotEmpty(t, s.Summary)
	}

	win := byOutcome(a, model.Win)
	assert.Equal(t, 9, win.Counts[MaintainsFirst])
	assert.Equal(t, MaintainsFirst, win.Dominant)
	assert.Equal(t, High, win.Qualifier)

	draw := byOutcome(a, model.Draw)
	assert.Equal(t, 6, draw.Counts[MaintainsFirst])
	assert.Equal(t, 3, draw.Counts[Drops])
	assert.Equal(t, 66.7, draw.Percentages[MaintainsFirst])
	require.NotEmpty(t, draw.DecidingResults)
	assert.Contains(t, draw.DecidingResults[0], "B draw vs E")

	loss := byOutcome(a, model.Loss)
	assert.Equal(t, 9, loss.Counts[Drops])
	assert.Equal(t, None, loss.Qualifier)
	assert.Empty(t, loss.DecidingResults)
}

func TestAnalyze_RivalsWithoutMatchStayFixed(t *testing.T) {
	// B's match is missing from the round, as when it was already played.
	rnd := round(5, [2]string{"A", "C"}, [2]string{"D", "F"})
	a := Analyze("A", table(), rnd, nil, DefaultConfig())

	require.Equal(t, Enumerated, a.Kind)
	for _, s := range a.Scenarios {
		assert.Equal(t, 1, s.Enumeration.Others, "only D is enumerated")
		assert.Equal(t, 3, s.Enumeration.Evaluated)
		assert.Equal(t, 3, total(s.Counts))
	}
}

func TestAnalyze_TieBreakLoss(t *testing.T) {
	rnd := round(5, [2]string{"A", "C"}, [2]string{"B", "E"}, [2]string{"D", "F"})
	a := Analyze("B", table(), rnd, nil, DefaultConfig())

	draw := byOutcome(a, model.Draw)
	require.Equal(t, 27, draw.Enumeration.Evaluated)
	assert.Equal(t, 27, total(draw.Counts))
	assert.Equal(t, 9, draw.Counts[TieBreakLoss])
	assert.Equal(t, 9, draw.Counts[ReachesFirst])
	assert.Equal(t, 9, draw.Counts[Maintains])
	assert.Equal(t, ReachesFirst, draw.Dominant, "ties go to the more favourable bucket")
	require.NotEmpty(t, draw.TieBreakNotes)
	assert.Contains(t, draw.TieBreakNotes[0], "on goals scored")
	assert.Equal(t, "E", draw.OpponentID)
	assert.True(t, draw.Home)
}

func TestAnalyze_CombinationCountIsPowerOfThree(t *testing.T) {
	for k := 0; k <= 5; k++ {
		var rows []standings.Row
		var pairs [][2]string
		for i := 0; i <= k; i++ {
			id := fmt.Sprintf("T%d", i)
			rows = append(rows,
				standings.Row{TeamID: id, TeamName: id},
				standings.Row{TeamID: "X" + id, TeamName: "X" + id, Points: 50},
			)
			pairs = append(pairs, [2]string{id, "X" + id})
		}
		standings.Sort(rows)

		a := Analyze("T0", rows, round(1, pairs...), nil, DefaultConfig())
		require.Equal(t, Enumerated, a.Kind)
		want := 1
		for i := 0; i < k; i++ {
			want *= 3
		}
		for _, s := range a.Scenarios {
			assert.Equal(t, k, s.Enumeration.Others)
			assert.Equal(t, want, s.Enumeration.Evaluated, "k=%d", k)
			assert.Equal(t, want, total(s.Counts), "k=%d", k)
		}
	}
}

func TestAnalyze_CappedIsDeterministic(t *testing.T) {
	var rows []standings.Row
	var pairs [][2]string
	for i := 0; i < 14; i += 2 {
		a, b := fmt.Sprintf("T%02d", i), fmt.Sprintf("T%02d", i+1)
		rows = append(rows, standings.Row{TeamID: a, TeamName: a}, standings.Row{TeamID: b, TeamName: b})
		pairs = append(pairs, [2]string{a, b})
	}
	standings.Sort(rows)

	cfg := DefaultConfig()
	cfg.ComboCeiling = 4
	first := Analyze("T00", rows, round(1, pairs...), nil, cfg)
	second := Analyze("T00", rows, round(1, pairs...), nil, cfg)

	for i, s := range first.Scenarios {
		assert.Equal(t, Capped, s.Enumeration.Mode)
		assert.Equal(t, 12, s.Enumeration.Others)
		assert.Equal(t, 81, s.Enumeration.Evaluated)
		assert.Equal(t, 531441.0, s.Enumeration.TotalEstimate)
		assert.Equal(t, 81, total(s.Counts))
		assert.Contains(t, s.Summary, "sampled")
		assert.Equal(t, s.Counts, second.Scenarios[i].Counts)
	}
}

func TestAnalyze_NoData(t *testing.T) {
	a := Analyze("ghost", table(), round(1, [2]string{"A", "B"}), nil, DefaultConfig())
	assert.Equal(t, NoData, a.Kind)
	assert.Empty(t, a.Scenarios)

	a = Analyze("A", nil, round(1), nil, DefaultConfig())
	assert.Equal(t, NoData, a.Kind)
}

func TestAnalyzeContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AnalyzeContext(ctx, "A", table(), round(5, [2]string{"A", "C"}), nil, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	rows := table()
	before := append([]standings.Row(nil), rows...)
	Analyze("A", rows, round(5, [2]string{"A", "C"}, [2]string{"B", "D"}), nil, DefaultConfig())
	assert.Equal(t, before, rows)
}

func TestAnalyze_QualifierUsesPredictor(t *testing.T) {
	rows := table()
	rnd := round(5, [2]string{"A", "C"}, [2]string{"B", "E"}, [2]string{"D", "F"})
	strong := map[string]profile.Profile{
		"A": {TeamID: "A", Rating: 9, RecentForm: 1, AttackStrength: 2},
		"C": {TeamID: "C", Rating: 2, RecentForm: 0, AttackStrength: 0.5},
	}
	a := Analyze("A", rows, rnd, strong, DefaultConfig())
	assert.Equal(t, 70, byOutcome(a, model.Win).OutcomeChance)
	assert.Equal(t, 10, byOutcome(a, model.Loss).OutcomeChance)
}
