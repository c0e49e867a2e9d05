// Package league is the service layer between the stores and the engine
// packages. It keeps a dataset snapshot in memory, builds per-group tables
// and profiles on demand, and drops the snapshot whenever a result changes.
package league

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/albapepper/scoracle-tournament/internal/cache"
	"github.com/albapepper/scoracle-tournament/internal/config"
	"github.com/albapepper/scoracle-tournament/internal/model"
	"github.com/albapepper/scoracle-tournament/internal/predict"
	"github.com/albapepper/scoracle-tournament/internal/profile"
	"github.com/albapepper/scoracle-tournament/internal/scenario"
	"github.com/albapepper/scoracle-tournament/internal/standings"
	"github.com/albapepper/scoracle-tournament/internal/store"
)

var (
	// ErrNotFound is returned for unknown group, team or match ids.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned for out-of-range parameters.
	ErrInvalid = errors.New("invalid argument")
	// ErrConflict is returned when a result already exists.
	ErrConflict = errors.New("conflict")
	// ErrReadOnly is returned by writes when the service has no writer.
	ErrReadOnly = errors.New("result entry is not available")
)

// maxSimRuns bounds a single champion-odds request.
const maxSimRuns = 100_000

// Settings are the engine knobs the service passes through.
type Settings struct {
	Scenario   scenario.Config
	Predict    predict.Config
	SimRuns    int
	SimWorkers int
}

// SettingsFrom maps application config onto engine settings.
func SettingsFrom(cfg *config.Config) Settings {
	p := predict.Config{HomeAdvantage: cfg.HomeAdvantage}
	return Settings{
		Scenario: scenario.Config{
			GapLimit:     cfg.ScenarioGapLimit,
			ComboCeiling: cfg.ScenarioComboCeiling,
			Predict:      p,
		},
		Predict:    p,
		SimRuns:    cfg.ForecastSimRuns,
		SimWorkers: cfg.ForecastWorkers,
	}
}

// Service answers standings, scenario, prediction and forecast queries.
type Service struct {
	source   store.Source
	writer   store.Writer
	cache    *cache.Cache
	settings Settings
	logger   *slog.Logger

	mu sync.Mutex
	ds *model.Dataset
}

// New creates a Service. writer may be nil for a read-only service; c may
// be nil when response caching is not wanted.
func New(source store.Source, writer store.Writer, c *cache.Cache, settings Settings, logger *slog.Logger) *Service {
	if c == nil {
		c = cache.New(false)
	}
	return &Service{
		source:   source,
		writer:   writer,
		cache:    c,
		settings: settings,
		logger:   logger,
	}
}

// Settings returns the engine settings in use.
func (s *Service) Settings() Settings { return s.settings }

// Cache returns the response cache shared with the HTTP layer.
func (s *Service) Cache() *cache.Cache { return s.cache }

// snapshot returns the current dataset, loading it on first use.
func (s *Service) snapshot(ctx context.Context) (*model.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ds != nil {
		return s.ds, nil
	}
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	for _, issue := range ds.Validate() {
		s.logger.Warn("skipping malformed result",
			"match_id", issue.MatchID,
			"group_id", issue.GroupID,
			"reason", issue.Reason,
		)
	}
	s.ds = ds
	s.logger.Info("dataset loaded",
		"groups", len(ds.Groups),
		"teams", len(ds.Teams),
		"results", len(ds.Results),
	)
	return ds, nil
}

// Dataset returns the current snapshot. Callers must not modify it.
func (s *Service) Dataset(ctx context.Context) (*model.Dataset, error) {
	return s.snapshot(ctx)
}

// Invalidate drops the dataset snapshot and every cached response for the
// group. An empty groupID drops the whole response cache.
func (s *Service) Invalidate(groupID string) {
	s.mu.Lock()
	s.ds = nil
	s.mu.Unlock()

	n := s.cache.InvalidatePrefix(CacheKeyGroups)
	if groupID == "" {
		n += s.cache.InvalidatePrefix("")
	} else {
		n += s.cache.InvalidatePrefix(GroupCachePrefix(groupID))
	}
	s.logger.Debug("invalidated", "group_id", groupID, "entries", n)
}

// Cache keys. Every group-derived response lives under its group prefix so a
// result write can drop exactly that group's entries.
const CacheKeyGroups = "groups"

// GroupCachePrefix is the key prefix of every response derived from a group.
func GroupCachePrefix(groupID string) string {
	return "group:" + groupID + ":"
}

// groupView bundles the derived state of one group.
type groupView struct {
	group    model.Group
	teams    []model.Team
	rounds   []model.FixtureRound
	results  []model.Result
	rows     []standings.Row
	profiles map[string]profile.Profile
}

// result returns the accepted result for a match of the group.
func (v groupView) result(matchID string) (model.Result, bool) {
	for _, r := range v.results {
		if r.MatchID == matchID {
			return r, true
		}
	}
	return model.Result{}, false
}

func (s *Service) group(ctx context.Context, groupID string) (*model.Dataset, groupView, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, groupView{}, err
	}
	g, ok := ds.Group(groupID)
	if !ok {
		return nil, groupView{}, fmt.Errorf("group %q: %w", groupID, ErrNotFound)
	}
	v := groupView{
		group:   g,
		teams:   ds.TeamsInGroup(groupID),
		rounds:  ds.RoundsInGroup(groupID),
		results: ds.ScheduledResultsInGroup(groupID),
	}
	v.rows = standings.Compute(v.teams, v.results)
	v.profiles = profile.BuildAll(v.rows)
	return ds, v, nil
}

// GroupOfTeam resolves a team to its group id.
func (s *Service) GroupOfTeam(ctx context.Context, teamID string) (string, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}
	t, ok := ds.Team(teamID)
	if !ok {
		return "", fmt.Errorf("team %q: %w", teamID, ErrNotFound)
	}
	return t.GroupID, nil
}

// GroupOfMatch resolves a scheduled match to its group id.
func (s *Service) GroupOfMatch(ctx context.Context, matchID string) (string, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}
	_, rnd, ok := ds.Match(matchID)
	if !ok {
		return "", fmt.Errorf("match %q: %w", matchID, ErrNotFound)
	}
	return rnd.GroupID, nil
}
