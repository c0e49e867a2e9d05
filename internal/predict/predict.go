// Package predict estimates single-match outcomes from team performance
// profiles using a bucketed strength-difference model.
package predict

import (
	"fmt"
	"math"
	"strings"

	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/profile"
)

// DefaultHomeAdvantage is the rating bonus granted to the home side.
const DefaultHomeAdvantage = 0.3

// Config holds predictor knobs. Callers override the defaults from config.
type Config struct {
	HomeAdvantage float64
}

// DefaultConfig returns the reference predictor settings.
func DefaultConfig() Config {
	return Config{HomeAdvantage: DefaultHomeAdvantage}
}

// Label is the predicted result of a match.
type Label string

const (
	HomeWin Label = "home_win"
	DrawRes Label = "draw"
	AwayWin Label = "away_win"
)

// Prediction is the outcome estimate for one match.
type Prediction struct {
	Label      Label   `json:"label"`
	Confidence int     `json:"confidence"`
	HomeWinPct int     `json:"home_win_pct"`
	DrawPct    int     `json:"draw_pct"`
	AwayWinPct int     `json:"away_win_pct"`
	HomeGoals  int     `json:"home_goals"`
	AwayGoals  int     `json:"away_goals"`
	Diff       float64 `json:"strength_diff"`
	Rationale  string  `json:"rationale"`
}

// Score renders the predicted scoreline, e.g. "2-1".
func (p Prediction) Score() string {
	return fmt.Sprintf("%d-%d", p.HomeGoals, p.AwayGoals)
}

type band struct {
	above            float64
	home, draw, away int
}

// bands are checked top-down; the first whose threshold diff exceeds wins.
// The last band catches diff <= -2.
var bands = []band{
	{2, 70, 20, 10},
	{1, 55, 25, 20},
	{0, 45, 30, 25},
	{-1, 30, 40, 30},
	{-2, 20, 25, 55},
	{math.Inf(-1), 10, 20, 70},
}

// Strength returns the home and away strength signals.
func Strength(home, away profile.Profile, cfg Config) (float64, float64) {
	hs := home.Rating + cfg.HomeAdvantage + 2*home.RecentForm
	as := away.Rating + 2*away.RecentForm
	return hs, as
}

// Probabilities buckets a strength difference into a home/draw/away triple
// that always sums to 100.
func Probabilities(diff float64) (home, draw, away int) {
	for _, b := range bands {
		if diff > b.above {
			return b.home, b.draw, b.away
		}
	}
	last := bands[len(bands)-1]
	return last.home, last.draw, last.away
}

// Predict estimates the match between home and away.
func Predict(home, away profile.Profile, cfg Config) Prediction {
	hs, as := Strength(home, away, cfg)
	diff := hs - as
	h, d, a := Probabilities(diff)

	p := Prediction{
		HomeWinPct: h,
		DrawPct:    d,
		AwayWinPct: a,
		Diff:       math.Round(diff*100) / 100,
	}

	switch {
	case h > d && h > a:
		p.Label, p.Confidence = HomeWin, h
	case a > d:
		p.Label, p.Confidence = AwayWin, a
	default:
		p.Label, p.Confidence = DrawRes, d
	}

	homeBonus, awayBonus := 0.0, 0.0
	if diff > 0 {
		homeBonus = 0.5
	}
	if diff < 0 {
		awayBonus = 0.5
	}
	p.HomeGoals = max(0, int(math.Round(home.AttackStrength+homeBonus)))
	p.AwayGoals = max(0, int(math.Round(away.AttackStrength+awayBonus)))

	p.Rationale = rationale(home, away, diff)
	return p
}

// OutcomeChance returns the predicted percentage that the team on the given
// side achieves outcome o.
func OutcomeChance(p Prediction, o model.Outcome, isHome bool) int {
	switch o {
	case model.Draw:
		return p.DrawPct
	case model.Win:
		if isHome {
			return p.HomeWinPct
		}
		return p.AwayWinPct
	case model.Loss:
		if isHome {
			return p.AwayWinPct
		}
		return p.HomeWinPct
	}
	return 0
}

func rationale(home, away profile.Profile, diff float64) string {
	var parts []string

	switch gap := math.Abs(diff); {
	case gap > 2:
		parts = append(parts, fmt.Sprintf("clear strength gap (%.1f) in favour of the %s side", gap, side(diff)))
	case gap > 1:
		parts = append(parts, fmt.Sprintf("noticeable edge (%.1f) for the %s side", gap, side(diff)))
	default:
		parts = append(parts, fmt.Sprintf("evenly matched sides (gap %.1f)", gap))
	}

	switch {
	case home.AttackStrength > away.DefenseStrength+0.5:
		parts = append(parts, fmt.Sprintf("home attack (%.1f per match) outpaces away defence (%.1f conceded)", home.AttackStrength, away.DefenseStrength))
	case away.AttackStrength > home.DefenseStrength+0.5:
		parts = append(parts, fmt.Sprintf("away attack (%.1f per match) outpaces home defence (%.1f conceded)", away.AttackStrength, home.DefenseStrength))
	default:
		parts = append(parts, "attacks and defences cancel out")
	}

	switch {
	case home.RecentForm-away.RecentForm >= 0.2:
		parts = append(parts, "home side in better form")
	case away.RecentForm-home.RecentForm >= 0.2:
		parts = append(parts, "away side in better form")
	default:
		parts = append(parts, "similar recent form")
	}

	s := strings.Join(parts, "; ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func side(diff float64) string {
	if diff >= 0 {
		return "home"
	}
	return "away"
}
