package maintenance

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Invalidator drops state derived from a group. *league.Service satisfies it.
type Invalidator interface {
	Invalidate(groupID string)
}

// FileWatcher detects edits to a data directory by comparing the newest
// modification time of its JSON files between calls.
type FileWatcher struct {
	dir    string
	target Invalidator

	mu   sync.Mutex
	last time.Time
}

// NewFileWatcher records the directory's current state as the baseline.
func NewFileWatcher(dir string, target Invalidator) *FileWatcher {
	w := &FileWatcher{dir: dir, target: target}
	w.last, _ = latestModTime(dir)
	return w
}

// Refresh invalidates everything when any data file changed.
func (w *FileWatcher) Refresh(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	latest, err := latestModTime(w.dir)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	changed := latest.After(w.last)
	if changed {
		w.last = latest
	}
	w.mu.Unlock()

	if changed {
		w.target.Invalidate("")
	}
	return changed, nil
}

// PeriodicRefresher drops everything on every tick. Used with Postgres as a
// safety net for notifications missed by the listener.
type PeriodicRefresher struct {
	Target Invalidator
}

// Refresh always invalidates.
func (p PeriodicRefresher) Refresh(ctx context.Context) (bool, error) {
	p.Target.Invalidate("")
	return true, nil
}

func latestModTime(dir string) (time.Time, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return time.Time{}, err
	}
	var latest time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return time.Time{}, err
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest, nil
}
