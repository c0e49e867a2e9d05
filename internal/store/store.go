// Package store loads tournament datasets and records match results. Two
// backends exist: a directory of JSON files and a Postgres database.
package store

import (
	"context"
	"errors"

	"github.com/albapepper/scoracle-tournament/internal/model"
)

var (
	// ErrDuplicateResult is returned when a result for the match already exists.
	ErrDuplicateResult = errors.New("result already recorded for match")
	// ErrResultNotFound is returned when editing a match that has no result.
	ErrResultNotFound = errors.New("no result recorded for match")
	// ErrUnknownMatch is returned when a result references a match that is not scheduled.
	ErrUnknownMatch = errors.New("match is not in any fixture round")
)

// Source supplies a complete dataset snapshot.
type Source interface {
	Load(ctx context.Context) (*model.Dataset, error)
}

// Writer records results and schedules.
type Writer interface {
	AppendResult(ctx context.Context, res model.Result) error
	EditScore(ctx context.Context, matchID string, home, away int) error
	SaveRounds(ctx context.Context, rounds []model.FixtureRound) error
}

// Store is a Source that can also be written to.
type Store interface {
	Source
	Writer
}

// checkScores rejects negative scores before they reach a backend.
func checkScores(home, away int) error {
	if home < 0 || away < 0 {
		return errors.New("scores must not be negative")
	}
	return nil
}

// fitScorers returns scorers unchanged when their goals fit within score,
// and nil otherwise. A score edit that drops below the credited goals
// leaves that side with no scorer breakdown.
func fitScorers(scorers []model.Scorer, score int) []model.Scorer {
	total := 0
	for _, sc := range scorers {
		total += sc.Goals
	}
	if total > score {
		return nil
	}
	return scorers
}
