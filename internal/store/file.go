package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/albapepper/scoracle-tournament/internal/model"
)

// Data file names inside a FileStore directory.
const (
	GroupsFile   = "groups.json"
	TeamsFile    = "teams.json"
	FixturesFile = "fixtures.json"
	ResultsFile  = "results.json"
)

// FileStore reads and writes a directory of JSON files. groups.json, teams.json
// and fixtures.json are required; a missing results.json means no results yet.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

// Load reads every data file into a fresh dataset.
func (s *FileStore) Load(ctx context.Context) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds := &model.Dataset{}
	if err := s.read(GroupsFile, &ds.Groups, false); err != nil {
		return nil, err
	}
	if err := s.read(TeamsFile, &ds.Teams, false); err != nil {
		return nil, err
	}
	if err := s.read(FixturesFile, &ds.Rounds, false); err != nil {
		return nil, err
	}
	if err := s.read(ResultsFile, &ds.Results, true); err != nil {
		return nil, err
	}
	return ds, nil
}

// AppendResult adds a result for a scheduled match that has none yet. Group,
// round and sides are taken from the fixture, not from res.
func (s *FileStore) AppendResult(ctx context.Context, res model.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkScores(res.HomeScore, res.AwayScore); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var rounds []model.FixtureRound
	if err := s.read(FixturesFile, &rounds, false); err != nil {
		return err
	}
	m, rnd, ok := scheduled(rounds, res.MatchID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMatch, res.MatchID)
	}
	res.GroupID, res.Round = rnd.GroupID, rnd.Round
	res.HomeTeamID, res.AwayTeamID = m.HomeTeamID, m.AwayTeamID

	var results []model.Result
	if err := s.read(ResultsFile, &results, true); err != nil {
		return err
	}
	for _, r := range results {
		if r.MatchID == res.MatchID {
			return fmt.Errorf("%w: %s", ErrDuplicateResult, res.MatchID)
		}
	}
	return s.write(ResultsFile, append(results, res))
}

// EditScore replaces the score of an existing result and marks it played.
// A side whose credited scorers no longer fit the new score loses them.
func (s *FileStore) EditScore(ctx context.Context, matchID string, home, away int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkScores(home, away); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []model.Result
	if err := s.read(ResultsFile, &results, true); err != nil {
		return err
	}
	for i := range results {
		if results[i].MatchID == matchID {
			results[i].HomeScore = home
			results[i].AwayScore = away
			results[i].HomeScorers = fitScorers(results[i].HomeScorers, home)
			results[i].AwayScorers = fitScorers(results[i].AwayScorers, away)
			results[i].Played = true
			return s.write(ResultsFile, results)
		}
	}
	return fmt.Errorf("%w: %s", ErrResultNotFound, matchID)
}

// SaveRounds replaces the rounds of every group present in rounds, keeping
// other groups' fixtures untouched.
func (s *FileStore) SaveRounds(ctx context.Context, rounds []model.FixtureRound) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing []model.FixtureRound
	if err := s.read(FixturesFile, &existing, true); err != nil {
		return err
	}
	replaced := make(map[string]bool)
	for _, r := range rounds {
		replaced[r.GroupID] = true
	}
	merged := make([]model.FixtureRound, 0, len(existing)+len(rounds))
	for _, r := range existing {
		if !replaced[r.GroupID] {
			merged = append(merged, r)
		}
	}
	merged = append(merged, rounds...)
	return s.write(FixturesFile, merged)
}

func (s *FileStore) read(name string, v any, optional bool) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// write replaces a data file atomically via a temp file in the same directory.
func (s *FileStore) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func scheduled(rounds []model.FixtureRound, matchID string) (model.ScheduledMatch, model.FixtureRound, bool) {
	for _, r := range rounds {
		for _, m := range r.Matches {
			if m.ID == matchID {
				return m, r, true
			}
		}
	}
	return model.ScheduledMatch{}, model.FixtureRound{}, false
}
