// Package profile derives team performance profiles from standings rows.
// Profiles feed the match predictor and the season forecaster.
package profile

import (
	"math"

	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/standings"
)

const (
	formWindow     = 5
	momentumWindow = 3
	steadyBand     = 0.34
)

// Direction of a team's momentum.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Steady  Direction = "steady"
)

// Momentum compares the most recent matches with the ones before them.
type Momentum struct {
	Direction Direction `json:"direction"`
	Strength  float64   `json:"strength"` // 0..1
}

// Profile is the derived strength summary of one team.
type Profile struct {
	TeamID          string   `json:"team_id"`
	RecentForm      float64  `json:"recent_form"`      // 0..1
	Consistency     float64  `json:"consistency"`      // 0..1
	AttackStrength  float64  `json:"attack_strength"`  // goals scored per match
	DefenseStrength float64  `json:"defense_strength"` // goals conceded per match
	PointsPerMatch  float64  `json:"points_per_match"`
	WinPct          float64  `json:"win_pct"` // 0..100
	Rating          float64  `json:"rating"`  // 0..10
	Momentum        Momentum `json:"momentum"`
	Neutral         bool     `json:"neutral,omitempty"`
}

// Neutral is the profile used when a team cannot be found in the standings.
func Neutral(teamID string) Profile {
	return Profile{
		TeamID:          teamID,
		RecentForm:      0.5,
		Consistency:     0.5,
		AttackStrength:  1,
		DefenseStrength: 1,
		PointsPerMatch:  1,
		WinPct:          round1(100.0 / 3),
		Rating:          5,
		Momentum:        Momentum{Direction: Steady},
		Neutral:         true,
	}
}

// Build derives a profile from one standings row. A team that has not played
// yet gets the neutral profile.
func Build(row standings.Row) Profile {
	if row.Played == 0 {
		return Neutral(row.TeamID)
	}
	played := float64(row.Played)

	p := Profile{
		TeamID:          row.TeamID,
		RecentForm:      form(row.History, formWindow),
		Consistency:     consistency(row.History),
		AttackStrength:  float64(row.GoalsFor) / played,
		DefenseStrength: float64(row.GoalsAgainst) / played,
		PointsPerMatch:  float64(row.Points) / played,
		WinPct:          round1(float64(row.Wins) / played * 100),
		Momentum:        momentum(row.History),
	}
	goalBalance := clamp((p.AttackStrength-p.DefenseStrength+2)/4, 0, 1)
	p.Rating = round2(clamp(6*(p.PointsPerMatch/3)+2*p.RecentForm+2*goalBalance, 0, 10))
	return p
}

// BuildAll derives profiles for every row, keyed by team id.
func BuildAll(rows []standings.Row) map[string]Profile {
	out := make(map[string]Profile, len(rows))
	for _, r := range rows {
		out[r.TeamID] = Build(r)
	}
	return out
}

// Lookup returns the team's profile or the neutral profile when missing.
func Lookup(profiles map[string]Profile, teamID string) Profile {
	if p, ok := profiles[teamID]; ok {
		return p
	}
	return Neutral(teamID)
}

// form is the share of available points earned over the last n matches.
func form(history []model.Outcome, n int) float64 {
	recent := tail(history, n)
	if len(recent) == 0 {
		return 0.5
	}
	pts := 0
	for _, o := range recent {
		pts += o.Points()
	}
	return round2(float64(pts) / float64(3*len(recent)))
}

func consistency(history []model.Outcome) float64 {
	if len(history) < 2 {
		return 0.5
	}
	mean := 0.0
	for _, o := range history {
		mean += float64(o.Points())
	}
	mean /= float64(len(history))
	variance := 0.0
	for _, o := range history {
		d := float64(o.Points()) - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(history)))
	return round2(clamp(1-stddev/1.5, 0, 1))
}

func momentum(history []model.Outcome) Momentum {
	if len(history) < 2*momentumWindow {
		return Momentum{Direction: Steady}
	}
	recent := ppm(history[len(history)-momentumWindow:])
	before := ppm(history[len(history)-2*momentumWindow : len(history)-momentumWindow])
	delta := recent - before
	m := Momentum{Strength: round2(clamp(math.Abs(delta)/3, 0, 1))}
	switch {
	case delta >= steadyBand:
		m.Direction = Rising
	case delta <= -steadyBand:
		m.Direction = Falling
	default:
		m.Direction = Steady
	}
	return m
}

func ppm(outcomes []model.Outcome) float64 {
	pts := 0
	for _, o := range outcomes {
		pts += o.Points()
	}
	return float64(pts) / float64(len(outcomes))
}

func tail(history []model.Outcome, n int) []model.Outcome {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
