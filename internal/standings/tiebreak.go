package standings

import "fmt"

// Criterion names the step of the tie-break chain that separated two rows.
type Criterion string

const (
	ByPoints     Criterion = "points"
	ByGoalDiff   Criterion = "goal_difference"
	ByGoalsFor   Criterion = "goals_for"
	ByHeadToHead Criterion = "head_to_head_wins"
	ByName       Criterion = "name"
	Identical    Criterion = "identical"
)

// Decide walks the tie-break chain and returns the first criterion on which
// a and b differ.
func Decide(a, b Row) Criterion {
	switch {
	case a.Points != b.Points:
		return ByPoints
	case a.GoalDiff != b.GoalDiff:
		return ByGoalDiff
	case a.GoalsFor != b.GoalsFor:
		return ByGoalsFor
	case a.TotalHeadToHeadWins() != b.TotalHeadToHeadWins():
		return ByHeadToHead
	case a.TeamName != b.TeamName:
		return ByName
	}
	return Identical
}

// Explain describes why winner ranks above loser, e.g.
// "Alpha ahead of Beta on goals scored (12 vs 9)".
func Explain(winner, loser Row) string {
	c := Decide(winner, loser)
	switch c {
	case ByPoints:
		return fmt.Sprintf("%s ahead of %s on points (%d vs %d)", winner.TeamName, loser.TeamName, winner.Points, loser.Points)
	case ByGoalDiff:
		return fmt.Sprintf("%s ahead of %s on goal difference (%+d vs %+d)", winner.TeamName, loser.TeamName, winner.GoalDiff, loser.GoalDiff)
	case ByGoalsFor:
		return fmt.Sprintf("%s ahead of %s on goals scored (%d vs %d)", winner.TeamName, loser.TeamName, winner.GoalsFor, loser.GoalsFor)
	case ByHeadToHead:
		return fmt.Sprintf("%s ahead of %s on head-to-head wins (%d vs %d)", winner.TeamName, loser.TeamName, winner.TotalHeadToHeadWins(), loser.TotalHeadToHeadWins())
	case ByName:
		return fmt.Sprintf("%s ahead of %s alphabetically", winner.TeamName, loser.TeamName)
	}
	return fmt.Sprintf("%s and %s are identical on every criterion", winner.TeamName, loser.TeamName)
}
