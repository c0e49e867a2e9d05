package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/standings"
)

// Bucket classifies where the team ends up in one combination, relative to
// its current position.
type Bucket string

const (
	ReachesFirst   Bucket = "reaches_first"
	MaintainsFirst Bucket = "maintains_first"
	Climbs         Bucket = "climbs"
	Maintains      Bucket = "maintains"
	TieBreakLoss   Bucket = "tiebreak_loss"
	Drops          Bucket = "drops"
)

// Buckets in order of favourability, best first.
var Buckets = []Bucket{ReachesFirst, MaintainsFirst, Climbs, Maintains, TieBreakLoss, Drops}

func favourable(b Bucket) bool {
	switch b {
	case ReachesFirst, MaintainsFirst, Climbs, Maintains:
		return true
	}
	return false
}

// Qualifier is a coarse likelihood label for one personal outcome.
type Qualifier string

const (
	High   Qualifier = "high"
	Medium Qualifier = "medium"
	Low    Qualifier = "low"
	None   Qualifier = "none"
)

// Scenario summarises one personal outcome (win, draw or loss) across every
// evaluated combination of the other relevant teams' results.
type Scenario struct {
	Outcome         model.Outcome      `json:"outcome,omitempty"`
	Rest            bool               `json:"rest,omitempty"`
	MatchID         string             `json:"match_id,omitempty"`
	OpponentID      string             `json:"opponent_id,omitempty"`
	Home            bool               `json:"home"`
	Enumeration     Enumeration        `json:"enumeration"`
	Counts          map[Bucket]int     `json:"counts"`
	Percentages     map[Bucket]float64 `json:"percentages"`
	Dominant        Bucket             `json:"dominant,omitempty"`
	OutcomeChance   int                `json:"outcome_chance"`
	Qualifier       Qualifier          `json:"qualifier"`
	DecidingResults []string           `json:"deciding_results,omitempty"`
	TieBreakNotes   []string           `json:"tiebreak_notes,omitempty"`
	Summary         string             `json:"summary"`
}

// classify places one simulated table into a bucket. A team level on points
// with the leader but not first is a tie-break loss, whatever its previous
// position.
func classify(current, next int, leader, self standings.Row) Bucket {
	switch {
	case next != 1 && self.Points == leader.Points:
		return TieBreakLoss
	case next == 1 && current == 1:
		return MaintainsFirst
	case next == 1:
		return ReachesFirst
	case next == current:
		return Maintains
	case next > current:
		return Drops
	}
	return Climbs
}

func dominant(counts map[Bucket]int) Bucket {
	var best Bucket
	n := 0
	for _, b := range Buckets {
		if counts[b] > n {
			best, n = b, counts[b]
		}
	}
	return best
}

// qualify folds the favourable share of combinations with the predictor's
// chance of the outcome actually happening.
func qualify(s Scenario) Qualifier {
	good := 0
	for _, b := range Buckets {
		if favourable(b) {
			good += s.Counts[b]
		}
	}
	if good == 0 || s.Enumeration.Evaluated == 0 {
		return None
	}
	share := float64(good) / float64(s.Enumeration.Evaluated)
	score := 0.6*share + 0.4*float64(s.OutcomeChance)/100
	switch {
	case score >= 0.6:
		return High
	case score >= 0.35:
		return Medium
	}
	return Low
}

func summarize(s Scenario, fx fixture) string {
	venue := "away at"
	if fx.home {
		venue = "at home to"
	}
	head := fmt.Sprintf("With a %s %s %s", s.Outcome, venue, fx.opponentName)
	if s.Dominant == "" {
		return head + ": no combinations evaluated"
	}
	out := fmt.Sprintf("%s: %s in %.1f%% of %d combinations", head, bucketPhrase(s.Dominant), s.Percentages[s.Dominant], s.Enumeration.Evaluated)
	if s.Enumeration.Mode == Capped {
		out += fmt.Sprintf(" (sampled from %.0f)", s.Enumeration.TotalEstimate)
	}
	return out + fmt.Sprintf("; likelihood %s", s.Qualifier)
}

func bucketPhrase(b Bucket) string {
	switch b {
	case ReachesFirst:
		return "reaches 1st"
	case MaintainsFirst:
		return "stays 1st"
	case Climbs:
		return "climbs the table"
	case Maintains:
		return "keeps its position"
	case TieBreakLoss:
		return "level on points with the leader but loses the tie-break"
	case Drops:
		return "drops"
	}
	return string(b)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
