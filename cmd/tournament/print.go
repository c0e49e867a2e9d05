package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/albapepper/scoracle-tournament/internal/league"
	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/scenario"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTab() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func printTable(t league.Table) {
	title := fmt.Sprintf("%s (%s)", t.GroupName, t.GroupID)
	if t.ExcludedRound > 0 {
		title += fmt.Sprintf(" without round %d", t.ExcludedRound)
	}
	if t.Completed {
		title += " [completed]"
	}
	fmt.Println(title)

	tw := newTab()
	fmt.Fprintln(tw, "#\tTeam\tP\tW\tD\tL\tGF\tGA\tGD\tPts\tForm")
	for _, r := range t.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%+d\t%d\t%s\n",
			r.Position, r.TeamName, r.Played, r.Wins, r.Draws, r.Losses,
			r.GoalsFor, r.GoalsAgainst, r.GoalDiff, r.Points, form(r.History))
	}
	tw.Flush()
	for _, note := range t.TieBreaks {
		fmt.Println("  " + note)
	}
}

func form(history []model.Outcome) string {
	if len(history) > 5 {
		history = history[len(history)-5:]
	}
	var b strings.Builder
	for _, o := range history {
		b.WriteString(string(o))
	}
	return b.String()
}

func printAnalysis(a scenario.Analysis) {
	fmt.Printf("%s: position %d, %d pts, round %d (%s)\n", a.TeamID, a.CurrentPosition, a.Points, a.Round, a.Kind)
	fmt.Printf("relevant within %d pts: %s\n", a.GapLimit, strings.Join(a.RelevantTeams, ", "))
	if a.Note != "" {
		fmt.Println(a.Note)
	}
	for _, s := range a.Scenarios {
		if s.Rest {
			continue
		}
		fmt.Printf("\nIf %s (%d%% likely, %s):\n", s.Outcome, s.OutcomeChance, s.Qualifier)
		fmt.Printf("  %s\n", s.Summary)
		fmt.Printf("  %d of %.0f combinations evaluated (%s)\n", s.Enumeration.Evaluated, s.Enumeration.TotalEstimate, s.Enumeration.Mode)
		tw := newTab()
		for _, b := range scenario.Buckets {
			if n := s.Counts[b]; n > 0 {
				fmt.Fprintf(tw, "  %s\t%d\t%.1f%%\n", b, n, s.Percentages[b])
			}
		}
		tw.Flush()
		for _, d := range s.DecidingResults {
			fmt.Printf("  needs: %s\n", d)
		}
		for _, n := range s.TieBreakNotes {
			fmt.Printf("  tie-break: %s\n", n)
		}
	}
}

func printPrediction(p league.MatchPrediction) {
	fmt.Printf("%s: %s vs %s (round %d)\n", p.MatchID, p.HomeTeamName, p.AwayTeamName, p.Round)
	pr := p.Prediction
	fmt.Printf("  %s (%d%%), predicted %s\n", pr.Label, pr.Confidence, pr.Score())
	fmt.Printf("  home %d%% / draw %d%% / away %d%%\n", pr.HomeWinPct, pr.DrawPct, pr.AwayWinPct)
	fmt.Printf("  %s\n", pr.Rationale)
	if p.Result != nil {
		fmt.Printf("  actual: %d-%d\n", p.Result.HomeScore, p.Result.AwayScore)
	}
}

func printForecast(f league.Forecast) {
	if f.NoData {
		fmt.Printf("%s: no data\n", f.GroupID)
		return
	}
	tw := newTab()
	fmt.Fprintln(tw, "#\tTeam\tNow\tPts\tLeft\tProjected\tMax\tQualify")
	for _, r := range f.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%.1f\t%d\t%.1f%%\n",
			r.Rank, r.TeamName, r.CurrentRank, r.Points, r.Remaining, r.ProjectedPoints, r.MaxPoints, r.QualificationPct)
	}
	tw.Flush()
}

func printOdds(o league.ChampionOdds) {
	fmt.Printf("%s: %d simulated seasons, %d matches left\n", o.GroupID, o.Runs, o.Remaining)
	tw := newTab()
	for _, odd := range o.Odds {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", odd.TeamName, odd.Titles, odd.Probability)
	}
	tw.Flush()
}
