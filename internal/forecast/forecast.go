// Package forecast projects end-of-season standings and qualification
// chances from the current table and team performance profiles.
package forecast

import (
	"math"
	"sort"

	"github.com/albapepper/scoracle-tournament/internal/profile"
	"github.com/albapepper/scoracle-tournament/internal/standings"
)

// leaderFloor is the minimum qualification chance of the current leader.
const leaderFloor = 25.0

// ProjectedRow is one team's extrapolated season finish.
type ProjectedRow struct {
	Rank             int     `json:"rank"`
	CurrentRank      int     `json:"current_rank"`
	TeamID           string  `json:"team_id"`
	TeamName         string  `json:"team_name"`
	Points           int     `json:"points"`
	Remaining        int     `json:"remaining_matches"`
	ProjectedPoints  float64 `json:"projected_points"`
	MaxPoints        int     `json:"max_points"`
	GoalDiff         int     `json:"goal_diff"`
	GoalsFor         int     `json:"goals_for"`
	QualificationPct float64 `json:"qualification_pct"`
}

// Projection is the ordered season forecast for one group.
type Projection struct {
	NoData bool           `json:"no_data,omitempty"`
	Rows   []ProjectedRow `json:"rows"`
}

// Project extrapolates each team's points over its remaining matches:
// points + remaining × points-per-match × recent form. Rows are re-sorted by
// projected points, goal difference and goals scored; head-to-head is left
// out because future meetings are unknown.
func Project(rows []standings.Row, profiles map[string]profile.Profile, remaining map[string]int) Projection {
	if len(rows) == 0 {
		return Projection{NoData: true, Rows: []ProjectedRow{}}
	}

	leader := rows[0].Points
	n := len(rows)
	out := make([]ProjectedRow, 0, n)
	for _, r := range rows {
		p := profile.Lookup(profiles, r.TeamID)
		left := max(0, remaining[r.TeamID])
		pr := ProjectedRow{
			CurrentRank:     r.Position,
			TeamID:          r.TeamID,
			TeamName:        r.TeamName,
			Points:          r.Points,
			Remaining:       left,
			ProjectedPoints: round1(float64(r.Points) + float64(left)*p.PointsPerMatch*clamp(p.RecentForm, 0, 1)),
			MaxPoints:       r.Points + 3*left,
			GoalDiff:        r.GoalDiff,
			GoalsFor:        r.GoalsFor,
		}
		pr.QualificationPct = qualification(pr, p, leader, n)
		out = append(out, pr)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ProjectedPoints != b.ProjectedPoints {
			return a.ProjectedPoints > b.ProjectedPoints
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamName < b.TeamName
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return Projection{Rows: out}
}

// qualification scores a team's chance to finish top. The base is linear in
// the current rank (1st = 100), scaled by form and rating, zeroed when the
// leader's points are out of reach and shrunk by the points gap relative to
// what is still available. The leader never drops below leaderFloor.
func qualification(r ProjectedRow, p profile.Profile, leader, teams int) float64 {
	rank := r.CurrentRank
	if rank < 1 {
		rank = teams
	}
	pct := 100 * float64(teams-rank+1) / float64(teams)
	pct *= (clamp(p.RecentForm, 0, 1) + clamp(p.Rating/10, 0, 1)) / 2

	if r.MaxPoints < leader {
		pct = 0
	} else if gap := leader - r.Points; gap > 0 {
		pct *= 1 - float64(gap)/float64(3*r.Remaining)
	}
	if rank == 1 {
		pct = math.Max(pct, leaderFloor)
	}
	return round1(clamp(pct, 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
