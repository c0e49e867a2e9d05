package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/store/storetest"
)

func TestFileStore_Load(t *testing.T) {
	s := NewFileStore(storetest.CopySample(t))

	ds, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Groups, 2)
	assert.Len(t, ds.Teams, 8)
	assert.Len(t, ds.Rounds, 6)
	assert.Len(t, ds.Results, 8)
	assert.Empty(t, ds.Validate())

	m, rnd, ok := ds.Match("A-r03-m01")
	require.True(t, ok)
	assert.Equal(t, 3, rnd.Round)
	assert.Equal(t, "POL", m.HomeTeamID)
	assert.False(t, m.Kickoff.IsZero())
}

func TestFileStore_MissingResultsFile(t *testing.T) {
	dir := storetest.CopySample(t)
	require.NoError(t, os.Remove(filepath.Join(dir, ResultsFile)))

	ds, err := NewFileStore(dir).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Results)
}

func TestFileStore_MissingRequiredFile(t *testing.T) {
	dir := storetest.CopySample(t)
	require.NoError(t, os.Remove(filepath.Join(dir, TeamsFile)))

	_, err := NewFileStore(dir).Load(context.Background())
	assert.ErrorContains(t, err, "read teams.json")
}

func TestFileStore_MalformedFile(t *testing.T) {
	dir := storetest.CopySample(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, GroupsFile), []byte("{nope"), 0o644))

	_, err := NewFileStore(dir).Load(context.Background())
	assert.ErrorContains(t, err, "decode groups.json")
}

func TestFileStore_AppendResult(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(storetest.CopySample(t))

	err := s.AppendResult(ctx, model.Result{MatchID: "A-r03-m01", HomeScore: 0, AwayScore: 2, Played: true})
	require.NoError(t, err)

	ds, err := s.Load(ctx)
	require.NoError(t, err)
	res, ok := ds.Result("A-r03-m01")
	require.True(t, ok)
	assert.Equal(t, "A", res.GroupID)
	assert.Equal(t, 3, res.Round)
	assert.Equal(t, "POL", res.HomeTeamID)
	assert.Equal(t, "ARG", res.AwayTeamID)
	assert.Len(t, ds.Results, 9)
}

func TestFileStore_AppendErrors(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(storetest.CopySample(t))

	err := s.AppendResult(ctx, model.Result{MatchID: "A-r01-m01", Played: true})
	assert.ErrorIs(t, err, ErrDuplicateResult)

	err = s.AppendResult(ctx, model.Result{MatchID: "Z-r09-m09", Played: true})
	assert.ErrorIs(t, err, ErrUnknownMatch)

	err = s.AppendResult(ctx, model.Result{MatchID: "A-r03-m01", HomeScore: -1})
	assert.Error(t, err)
}

func TestFileStore_EditScore(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(storetest.CopySample(t))

	require.NoError(t, s.EditScore(ctx, "A-r01-m01", 3, 0))
	ds, err := s.Load(ctx)
	require.NoError(t, err)
	res, _ := ds.Result("A-r01-m01")
	assert.Equal(t, 3, res.HomeScore)
	assert.Equal(t, 0, res.AwayScore)

	assert.ErrorIs(t, s.EditScore(ctx, "A-r03-m01", 1, 1), ErrResultNotFound)
}

func TestFileStore_EditScoreDropsScorersThatNoLongerFit(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(storetest.CopySample(t))

	require.NoError(t, s.AppendResult(ctx, model.Result{
		MatchID:     "A-r03-m01",
		HomeScore:   3,
		AwayScore:   1,
		Played:      true,
		HomeScorers: []model.Scorer{{PlayerID: "h9", Goals: 2}, {PlayerID: "h10", Goals: 1, Type: model.GoalPenalty}},
		AwayScorers: []model.Scorer{{PlayerID: "a7", Goals: 1}},
	}))

	require.NoError(t, s.EditScore(ctx, "A-r03-m01", 3, 0))
	ds, err := s.Load(ctx)
	require.NoError(t, err)
	res, _ := ds.Result("A-r03-m01")
	assert.Len(t, res.HomeScorers, 2, "three credited goals still fit a score of three")
	assert.Empty(t, res.AwayScorers)

	require.NoError(t, s.EditScore(ctx, "A-r03-m01", 0, 0))
	ds, err = s.Load(ctx)
	require.NoError(t, err)
	res, _ = ds.Result("A-r03-m01")
	assert.Empty(t, res.HomeScorers)
	assert.Empty(t, res.AwayScorers)
}

func TestFileStore_SaveRoundsReplacesGroup(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(storetest.CopySample(t))

	rounds := []model.FixtureRound{{
		GroupID: "B",
		Round:   1,
		Matches: []model.ScheduledMatch{{ID: "B-x", HomeTeamID: "FRA", AwayTeamID: "TUN"}},
	}}
	require.NoError(t, s.SaveRounds(ctx, rounds))

	ds, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, ds.RoundsInGroup("A"), 3)
	require.Len(t, ds.RoundsInGroup("B"), 1)
	assert.Equal(t, "B-x", ds.RoundsInGroup("B")[0].Matches[0].ID)
}

func TestFileStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(storetest.CopySample(t))
	ids := []string{"A-r03-m01", "A-r03-m02", "B-r03-m01", "B-r03-m02"}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, s.AppendResult(ctx, model.Result{MatchID: id, HomeScore: 1, Played: true}))
		}(id)
	}
	wg.Wait()

	ds, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, ds.Results, 12)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 4, "no temp files left behind")
}

func TestFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileStore(storetest.CopySample(t)).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
