package forecast

import (
	"context"
	"math/rand/v2"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/predict"
	"github.com/albapepper/scoracle-tournament/internal/profile"
	"github.com/albapepper/scoracle-tournament/internal/standings"
)

const (
	defaultRuns    = 2000
	defaultWorkers = 4
)

// Options controls the champion-odds simulation.
type Options struct {
	Runs    int
	Workers int
	Seed    uint64
	Predict predict.Config
}

// Odds is one team's simulated chance of finishing first.
type Odds struct {
	TeamID      string  `json:"team_id"`
	TeamName    string  `json:"team_name"`
	Titles      int     `json:"titles"`
	Probability float64 `json:"probability"`
}

type sampledMatch struct {
	match model.ScheduledMatch
	pred  predict.Prediction
}

// ChampionOdds plays the remaining fixtures Runs times, sampling every match
// from the predictor's home/draw/away split, and counts how often each team
// tops the final table. Runs are sharded across Workers goroutines; for a
// fixed Seed and Workers the result is deterministic.
func ChampionOdds(ctx context.Context, rows []standings.Row, profiles map[string]profile.Profile, fixtures []model.ScheduledMatch, opts Options) ([]Odds, error) {
	if len(rows) == 0 {
		return []Odds{}, nil
	}
	if opts.Runs <= 0 {
		opts.Runs = defaultRuns
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	opts.Workers = min(opts.Workers, opts.Runs)

	matches := make([]sampledMatch, 0, len(fixtures))
	for _, m := range fixtures {
		matches = append(matches, sampledMatch{
			match: m,
			pred:  predict.Predict(profile.Lookup(profiles, m.HomeTeamID), profile.Lookup(profiles, m.AwayTeamID), opts.Predict),
		})
	}

	titles := make([]map[string]int, opts.Workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		runs := opts.Runs / opts.Workers
		if w < opts.Runs%opts.Workers {
			runs++
		}
		titles[w] = make(map[string]int)
		counts := titles[w]
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(w)))

		g.Go(func() error {
			results := make([]model.Result, len(matches))
			for i := 0; i < runs; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for j, sm := range matches {
					results[j] = sample(rng, sm)
				}
				table := standings.CloneAll(rows)
				standings.ApplyAll(table, results)
				counts[table[0].TeamID]++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]int, len(rows))
	for _, m := range titles {
		for id, n := range m {
			merged[id] += n
		}
	}
	out := make([]Odds, 0, len(rows))
	for _, r := range rows {
		n := merged[r.TeamID]
		out = append(out, Odds{
			TeamID:      r.TeamID,
			TeamName:    r.TeamName,
			Titles:      n,
			Probability: round1(float64(n) / float64(opts.Runs) * 100),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Titles != out[j].Titles {
			return out[i].Titles > out[j].Titles
		}
		return out[i].TeamName < out[j].TeamName
	})
	return out, nil
}

// sample draws an outcome from the prediction's split and turns the
// predicted scoreline into one consistent with it.
func sample(rng *rand.Rand, sm sampledMatch) model.Result {
	p := sm.pred
	hg, ag := p.HomeGoals, p.AwayGoals
	roll := rng.IntN(100)
	switch {
	case roll < p.HomeWinPct:
		hg = max(hg, ag+1)
	case roll < p.HomeWinPct+p.DrawPct:
		hg = min(hg, ag)
		ag = hg
	default:
		ag = max(ag, hg+1)
	}
	return model.Result{
		MatchID:    sm.match.ID,
		HomeTeamID: sm.match.HomeTeamID,
		AwayTeamID: sm.match.AwayTeamID,
		HomeScore:  hg,
		AwayScore:  ag,
		Played:     true,
	}
}
