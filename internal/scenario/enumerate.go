package scenario

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/standings"
)

// Mode tells whether every combination was evaluated.
type Mode string

const (
	Complete Mode = "complete"
	Capped   Mode = "capped"
)

// Enumeration describes how much of the combination space was evaluated.
// When Mode is Capped, Evaluated is a deterministic sample of 3^ceiling
// combinations and TotalEstimate is the full 3^k.
type Enumeration struct {
	Mode          Mode    `json:"mode"`
	Others        int     `json:"other_teams"`
	Evaluated     int     `json:"evaluated"`
	TotalEstimate float64 `json:"total_estimate"`
}

type contender struct {
	teamID       string
	name         string
	opponentID   string
	opponentName string
}

type fixture struct {
	matchID      string
	opponentID   string
	opponentName string
	home         bool
}

// combinations calls fn with every outcome vector for k teams, or with a
// seeded sample when 3^k exceeds 3^ceiling. The slice passed to fn is reused.
func combinations(ctx context.Context, k, ceiling int, seed uint64, fn func(digits []int)) (Enumeration, error) {
	e := Enumeration{Others: k, TotalEstimate: pow3(k)}
	digits := make([]int, k)

	if k <= ceiling {
		e.Mode = Complete
		total := int(pow3(k))
		for i := 0; i < total; i++ {
			if i%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return e, err
				}
			}
			n := i
			for d := k - 1; d >= 0; d-- {
				digits[d] = n % 3
				n /= 3
			}
			fn(digits)
			e.Evaluated++
		}
		return e, nil
	}

	e.Mode = Capped
	sample := int(pow3(ceiling))
	rng := rand.New(rand.NewPCG(seed, uint64(k)))
	for i := 0; i < sample; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return e, err
			}
		}
		for d := range digits {
			digits[d] = rng.IntN(3)
		}
		fn(digits)
		e.Evaluated++
	}
	return e, nil
}

func seedFor(teamID string, o model.Outcome) uint64 {
	h := fnv.New64a()
	h.Write([]byte(teamID))
	h.Write([]byte(o))
	return h.Sum64()
}

// applyOutcome adds a hypothetical result to a row. The goal model is a
// deliberate approximation: a win is 1-0, a loss 0-1 and a draw 1-1.
func applyOutcome(r *standings.Row, o model.Outcome) {
	switch o {
	case model.Win:
		r.Points += 3
		r.GoalsFor++
	case model.Draw:
		r.Points++
		r.GoalsFor++
		r.GoalsAgainst++
	case model.Loss:
		r.GoalsAgainst++
	}
	r.GoalDiff = r.GoalsFor - r.GoalsAgainst
}

func indexOf(rows []standings.Row, teamID string) int {
	for i, r := range rows {
		if r.TeamID == teamID {
			return i
		}
	}
	return -1
}

// evaluate enumerates the other teams' results for one personal outcome.
func evaluate(ctx context.Context, rows []standings.Row, self standings.Row, fx fixture, o model.Outcome, others []contender, ceiling int) (Scenario, error) {
	s := Scenario{
		Outcome:         o,
		MatchID:         fx.matchID,
		OpponentID:      fx.opponentID,
		Home:            fx.home,
		Counts:          map[Bucket]int{},
		Percentages:     map[Bucket]float64{},
		DecidingResults: []string{},
		TieBreakNotes:   []string{},
	}

	// Row copies share History and HeadToHeadWins with rows. Only the
	// numeric fields are touched below, so the maps are never written.
	base := make([]standings.Row, len(rows))
	copy(base, rows)
	if i := indexOf(base, self.TeamID); i >= 0 {
		applyOutcome(&base[i], o)
	}
	if i := indexOf(base, fx.opponentID); i >= 0 {
		applyOutcome(&base[i], o.Opposite())
	}

	otherIdx := make([]int, len(others))
	for i, c := range others {
		otherIdx[i] = indexOf(base, c.teamID)
	}

	deciding := map[Bucket][]string{}
	notes := map[string]bool{}
	snap := make([]standings.Row, len(base))

	enum, err := combinations(ctx, len(others), ceiling, seedFor(self.TeamID, o), func(digits []int) {
		copy(snap, base)
		for i, d := range digits {
			if otherIdx[i] >= 0 {
				applyOutcome(&snap[otherIdx[i]], model.Outcomes[d])
			}
		}
		standings.Sort(snap)

		pos := indexOf(snap, self.TeamID) + 1
		b := classify(self.Position, pos, snap[0], snap[pos-1])
		s.Counts[b]++

		if b == TieBreakLoss && len(notes) < maxTieBreakNotes {
			notes[standings.Explain(snap[0], snap[pos-1])] = true
		}
		if favourable(b) && len(deciding[b]) < maxDecidingResults {
			deciding[b] = appendUnique(deciding[b], describe(others, digits))
		}
	})
	if err != nil {
		return s, err
	}

	s.Enumeration = enum
	for _, b := range Buckets {
		if enum.Evaluated > 0 {
			s.Percentages[b] = round1(float64(s.Counts[b]) / float64(enum.Evaluated) * 100)
		}
	}
	s.Dominant = dominant(s.Counts)
	for _, b := range Buckets {
		if len(deciding[b]) > 0 {
			s.DecidingResults = deciding[b]
			break
		}
	}
	for _, n := range sortedKeys(notes) {
		s.TieBreakNotes = append(s.TieBreakNotes, n)
	}
	return s, nil
}

// describe renders the other teams' results of one combination, e.g.
// "Beta win vs Gamma, Delta draw vs Alpha".
func describe(others []contender, digits []int) string {
	if len(others) == 0 {
		return "regardless of other results"
	}
	parts := make([]string, len(others))
	for i, c := range others {
		parts[i] = fmt.Sprintf("%s %s vs %s", c.name, model.Outcomes[digits[i]], c.opponentName)
	}
	return strings.Join(parts, ", ")
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
