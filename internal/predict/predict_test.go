package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/profile"
)

func prof(rating, form, attack float64) profile.Profile {
	return profile.Profile{Rating: rating, RecentForm: form, AttackStrength: attack, DefenseStrength: 1}
}

func TestProbabilities_Bands(t *testing.T) {
	tests := []struct {
		diff             float64
		home, draw, away int
	}{
		{3.5, 70, 20, 10},
		{2.0, 55, 25, 20},
		{1.5, 55, 25, 20},
		{1.0, 45, 30, 25},
		{0.1, 45, 30, 25},
		{0.0, 30, 40, 30},
		{-0.9, 30, 40, 30},
		{-1.0, 20, 25, 55},
		{-1.9, 20, 25, 55},
		{-2.0, 10, 20, 70},
		{-10, 10, 20, 70},
	}
	for _, tt := range tests {
		h, d, a := Probabilities(tt.diff)
		assert.Equal(t, [3]int{tt.home, tt.draw, tt.away}, [3]int{h, d, a}, "diff %.1f", tt.diff)
		assert.Equal(t, 100, h+d+a)
	}
}

func TestPredict_StrongHomeSide(t *testing.T) {
	p := Predict(prof(8, 1, 2.2), prof(4, 0.2, 0.8), DefaultConfig())

	assert.Equal(t, HomeWin, p.Label)
	assert.Equal(t, 70, p.Confidence)
	assert.Equal(t, 3, p.HomeGoals) // round(2.2 + 0.5)
	assert.Equal(t, 1, p.AwayGoals) // round(0.8)
	assert.Equal(t, "3-1", p.Score())
	assert.NotEmpty(t, p.Rationale)
}

func TestPredict_StrongAwaySide(t *testing.T) {
	p := Predict(prof(3, 0, 0.4), prof(9, 1, 1.6), DefaultConfig())

	assert.Equal(t, AwayWin, p.Label)
	assert.Equal(t, 70, p.AwayWinPct)
	assert.Equal(t, 0, p.HomeGoals)
	assert.Equal(t, 2, p.AwayGoals)
}

func TestPredict_EvenMatchIsDraw(t *testing.T) {
	p := Predict(prof(5, 0.5, 1), prof(5, 0.5, 1), Config{})
	assert.Equal(t, 0.0, p.Diff)
	assert.Equal(t, DrawRes, p.Label)
	assert.Equal(t, 40, p.Confidence)
	assert.Equal(t, 1, p.HomeGoals)
	assert.Equal(t, 1, p.AwayGoals)
}

func TestPredict_HomeAdvantageIsConfigurable(t *testing.T) {
	home, away := prof(5, 0.5, 1), prof(5, 0.5, 1)

	none := Predict(home, away, Config{HomeAdvantage: 0})
	big := Predict(home, away, Config{HomeAdvantage: 2.5})

	assert.Equal(t, DrawRes, none.Label)
	assert.Equal(t, HomeWin, big.Label)
	assert.Equal(t, 70, big.HomeWinPct)
}

func TestPredict_NeutralProfiles(t *testing.T) {
	p := Predict(profile.Neutral("a"), profile.Neutral("b"), DefaultConfig())
	assert.Equal(t, 100, p.HomeWinPct+p.DrawPct+p.AwayWinPct)
	assert.NotEmpty(t, p.Rationale)
}

func TestOutcomeChance(t *testing.T) {
	p := Prediction{HomeWinPct: 55, DrawPct: 25, AwayWinPct: 20}
	assert.Equal(t, 55, OutcomeChance(p, model.Win, true))
	assert.Equal(t, 20, OutcomeChance(p, model.Win, false))
	assert.Equal(t, 20, OutcomeChance(p, model.Loss, true))
	assert.Equal(t, 55, OutcomeChance(p, model.Loss, false))
	assert.Equal(t, 25, OutcomeChance(p, model.Draw, false))
}
