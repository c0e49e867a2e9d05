// Command tournament is the Scoracle Tournament CLI: league tables, what-if
// scenarios, predictions and forecasts from the terminal, plus result entry,
// fixture generation and database setup.
//
// Usage:
//
//	tournament standings --group A
//	tournament standings --group A --exclude-round 2
//	tournament scenarios --team POL --gap 3
//	tournament predict --match A-r03-m01
//	tournament forecast --group A
//	tournament odds --group A --runs 5000
//	tournament results add --match A-r03-m01 --home 1 --away 2
//	tournament results edit --match A-r03-m01 --home 2 --away 2
//	tournament fixtures generate --group A --start 2026-11-20 --interval 72h
//	tournament validate
//	tournament migrate up
//	tournament import --from data
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-tournament/internal/cache"
	"github.com/albapepper/scoracle-tournament/internal/config"
	"github.com/albapepper/scoracle-tournament/internal/db"
	"github.com/albapepper/scoracle-tournament/internal/fixture"
	"github.com/albapepper/scoracle-tournament/internal/league"
	"github.com/albapepper/scoracle-tournament/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Global flags override the environment.
var (
	flagSource string
	flagDir    string
	flagJSON   bool
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "tournament",
		Short:         "Scoracle tournament standings and scenario CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagSource, "source", "", "Data source (file, postgres); overrides DATA_SOURCE")
	root.PersistentFlags().StringVar(&flagDir, "data-dir", "", "Data directory; overrides DATA_DIR")
	root.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of tables")

	root.AddCommand(standingsCmd())
	root.AddCommand(scenariosCmd())
	root.AddCommand(predictCmd())
	root.AddCommand(forecastCmd())
	root.AddCommand(oddsCmd())
	root.AddCommand(resultsCmd())
	root.AddCommand(fixturesCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(importCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// Read commands
// --------------------------------------------------------------------------

func standingsCmd() *cobra.Command {
	var (
		groupID      string
		excludeRound int
	)
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print a group's league table (every group when --group is empty)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeague(func(ctx context.Context, env *env) error {
				if groupID == "" {
					tables, err := env.svc.Overview(ctx)
					if err != nil {
						return err
					}
					if flagJSON {
						return printJSON(tables)
					}
					for _, t := range tables {
						printTable(t)
						fmt.Println()
					}
					return nil
				}
				t, err := env.svc.Standings(ctx, groupID, excludeRound)
				if err != nil {
					return err
				}
				if flagJSON {
					return printJSON(t)
				}
				printTable(t)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "Group ID")
	cmd.Flags().IntVar(&excludeRound, "exclude-round", 0, "Leave this round's results out")
	return cmd
}

func scenariosCmd() *cobra.Command {
	var (
		teamID string
		gap    int
	)
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Enumerate next-round what-if scenarios for a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teamID == "" {
				return fmt.Errorf("--team is required")
			}
			return runLeague(func(ctx context.Context, env *env) error {
				start := time.Now()
				a, err := env.svc.Scenarios(ctx, teamID, gap)
				if err != nil {
					return err
				}
				logger.Debug("scenarios computed", "team_id", teamID, "duration", time.Since(start).Round(time.Millisecond))
				if flagJSON {
					return printJSON(a)
				}
				printAnalysis(a)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&teamID, "team", "", "Team ID")
	cmd.Flags().IntVar(&gap, "gap", -1, "Points gap for relevant teams (-1 = SCENARIO_GAP_LIMIT)")
	return cmd
}

func predictCmd() *cobra.Command {
	var matchID string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a single match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if matchID == "" {
				return fmt.Errorf("--match is required")
			}
			return runLeague(func(ctx context.Context, env *env) error {
				p, err := env.svc.Prediction(ctx, matchID)
				if err != nil {
					return err
				}
				if flagJSON {
					return printJSON(p)
				}
				printPrediction(p)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&matchID, "match", "", "Match ID")
	return cmd
}

func forecastCmd() *cobra.Command {
	var groupID string
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project a group's season finish",
		RunE: func(cmd *cobra.Command, args []string) error {
			if groupID == "" {
				return fmt.Errorf("--group is required")
			}
			return runLeague(func(ctx context.Context, env *env) error {
				f, err := env.svc.Forecast(ctx, groupID)
				if err != nil {
					return err
				}
				if flagJSON {
					return printJSON(f)
				}
				printForecast(f)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "Group ID")
	return cmd
}

func oddsCmd() *cobra.Command {
	var (
		groupID string
		runs    int
	)
	cmd := &cobra.Command{
		Use:   "odds",
		Short: "Simulate the remaining fixtures and report title chances",
		RunE: func(cmd *cobra.Command, args []string) error {
			if groupID == "" {
				return fmt.Errorf("--group is required")
			}
			return runLeague(func(ctx context.Context, env *env) error {
				start := time.Now()
				o, err := env.svc.ChampionOdds(ctx, groupID, runs)
				if err != nil {
					return err
				}
				logger.Info("simulation finished", "group_id", groupID, "runs", o.Runs,
					"duration", time.Since(start).Round(time.Millisecond))
				if flagJSON {
					return printJSON(o)
				}
				printOdds(o)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "Group ID")
	cmd.Flags().IntVar(&runs, "runs", 0, "Simulated seasons (0 = FORECAST_SIM_RUNS)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report results that reference unknown matches, rounds or teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeague(func(ctx context.Context, env *env) error {
				ds, err := env.store.Load(ctx)
				if err != nil {
					return err
				}
				issues := ds.Validate()
				if flagJSON {
					return printJSON(issues)
				}
				for _, issue := range issues {
					fmt.Println(issue.String())
				}
				if len(issues) > 0 {
					return fmt.Errorf("%d malformed results", len(issues))
				}
				fmt.Printf("ok: %d groups, %d teams, %d rounds, %d results\n",
					len(ds.Groups), len(ds.Teams), len(ds.Rounds), len(ds.Results))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Write commands
// --------------------------------------------------------------------------

func resultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Record or correct match results",
	}
	cmd.AddCommand(resultsAddCmd())
	cmd.AddCommand(resultsEditCmd())
	return cmd
}

func resultsAddCmd() *cobra.Command {
	var (
		matchID    string
		home, away int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record the result of a scheduled match",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeague(func(ctx context.Context, env *env) error {
				res, err := env.svc.SubmitResult(ctx, league.ResultInput{
					MatchID:   matchID,
					HomeScore: home,
					AwayScore: away,
				})
				if err != nil {
					return err
				}
				if flagJSON {
					return printJSON(res)
				}
				fmt.Printf("recorded %s: %s %d-%d %s\n", res.MatchID, res.HomeTeamID, res.HomeScore, res.AwayScore, res.AwayTeamID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&matchID, "match", "", "Match ID")
	cmd.Flags().IntVar(&home, "home", 0, "Home score")
	cmd.Flags().IntVar(&away, "away", 0, "Away score")
	return cmd
}

func resultsEditCmd() *cobra.Command {
	var (
		matchID    string
		home, away int
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Replace the score of a recorded result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if matchID == "" {
				return fmt.Errorf("--match is required")
			}
			return runLeague(func(ctx context.Context, env *env) error {
				res, err := env.svc.EditResult(ctx, matchID, home, away)
				if err != nil {
					return err
				}
				if flagJSON {
					return printJSON(res)
				}
				fmt.Printf("updated %s: %s %d-%d %s\n", res.MatchID, res.HomeTeamID, res.HomeScore, res.AwayScore, res.AwayTeamID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&matchID, "match", "", "Match ID")
	cmd.Flags().IntVar(&home, "home", 0, "Home score")
	cmd.Flags().IntVar(&away, "away", 0, "Away score")
	return cmd
}

func fixturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Fixture schedule tools",
	}
	cmd.AddCommand(fixturesGenerateCmd())
	return cmd
}

func fixturesGenerateCmd() *cobra.Command {
	var (
		groupID  string
		start    string
		interval time.Duration
		single   bool
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a round-robin schedule for a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			if groupID == "" {
				return fmt.Errorf("--group is required")
			}
			startAt, err := time.Parse(time.DateOnly, start)
			if err != nil {
				return fmt.Errorf("parse --start: %w", err)
			}
			return runLeague(func(ctx context.Context, env *env) error {
				ds, err := env.svc.Dataset(ctx)
				if err != nil {
					return err
				}
				if _, ok := ds.Group(groupID); !ok {
					return fmt.Errorf("group %q: %w", groupID, league.ErrNotFound)
				}
				if len(ds.ResultsInGroup(groupID)) > 0 && !force {
					return fmt.Errorf("group %s already has results; pass --force to reschedule", groupID)
				}

				var teamIDs []string
				for _, t := range ds.TeamsInGroup(groupID) {
					teamIDs = append(teamIDs, t.ID)
				}
				rounds := fixture.GenerateRoundRobin(groupID, teamIDs, startAt.UTC(), interval)
				if single {
					rounds = rounds[:len(rounds)/2]
				}
				if err := env.svc.SaveRounds(ctx, rounds); err != nil {
					return err
				}
				logger.Info("fixtures generated", "group_id", groupID, "teams", len(teamIDs), "rounds", len(rounds))
				if flagJSON {
					return printJSON(rounds)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "Group ID")
	cmd.Flags().StringVar(&start, "start", time.Now().Format(time.DateOnly), "First round date (YYYY-MM-DD)")
	cmd.Flags().DurationVar(&interval, "interval", 7*24*time.Hour, "Time between rounds")
	cmd.Flags().BoolVar(&single, "single", false, "Single round-robin (no return legs)")
	cmd.Flags().BoolVar(&force, "force", false, "Replace the schedule even if results exist")
	return cmd
}

// --------------------------------------------------------------------------
// Database commands
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			if args[0] == "down" {
				return db.MigrateDown(cfg.DatabaseURL, logger)
			}
			return db.Migrate(cfg.DatabaseURL, logger)
		},
	}
	return cmd
}

func importCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a data directory into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			if from == "" {
				from = cfg.DataDir
			}

			ds, err := store.NewFileStore(from).Load(ctx)
			if err != nil {
				return err
			}
			for _, issue := range ds.Validate() {
				logger.Warn("importing malformed result", "match_id", issue.MatchID, "reason", issue.Reason)
			}

			pool, err := db.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			start := time.Now()
			if err := store.NewPGStore(pool.Pool).Import(ctx, ds); err != nil {
				return err
			}
			logger.Info("import finished",
				"groups", len(ds.Groups), "teams", len(ds.Teams),
				"rounds", len(ds.Rounds), "results", len(ds.Results),
				"duration", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Data directory (defaults to DATA_DIR)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

type env struct {
	cfg   *config.Config
	store store.Store
	svc   *league.Service
}

func loadConfig() (*config.Config, error) {
	if flagSource != "" {
		os.Setenv("DATA_SOURCE", flagSource)
	}
	if flagDir != "" {
		os.Setenv("DATA_DIR", flagDir)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// runLeague handles config loading, store selection, and context cancellation.
func runLeague(fn func(ctx context.Context, env *env) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	e := &env{cfg: cfg}
	if cfg.UsesPostgres() {
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		e.store = store.NewPGStore(pool.Pool)
	} else {
		e.store = store.NewFileStore(cfg.DataDir)
	}
	e.svc = league.New(e.store, e.store, cache.New(false), league.SettingsFrom(cfg), logger)

	return fn(ctx, e)
}
