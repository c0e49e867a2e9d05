// Package jobs runs long scenario analyses off the request goroutine. Each
// job gets a uuid, runs under its own cancellable context and keeps its
// result until it expires.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is a job's lifecycle state.
type Status string

const (
	Pending   Status = "pending"
	Running   Status = "running"
	Done      Status = "done"
	Failed    Status = "failed"
	Cancelled Status = "cancelled"
)

// Finished reports whether the status is terminal.
func (s Status) Finished() bool {
	return s == Done || s == Failed || s == Cancelled
}

// ErrNotFound is returned for unknown or expired job ids.
var ErrNotFound = errors.New("job not found")

// Func is the work a job performs.
type Func func(ctx context.Context) (any, error)

// Job is a snapshot of one job's state.
type Job struct {
	ID         uuid.UUID  `json:"id"`
	Kind       string     `json:"kind"`
	Status     Status     `json:"status"`
	Result     any        `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type entry struct {
	job    Job
	cancel context.CancelFunc
}

// Runner tracks jobs in memory.
type Runner struct {
	mu     sync.Mutex
	jobs   map[uuid.UUID]*entry
	ttl    time.Duration
	logger *slog.Logger
	wg     sync.WaitGroup
	now    func() time.Time
}

// NewRunner creates a runner whose finished jobs expire after ttl.
func NewRunner(ttl time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		jobs:   make(map[uuid.UUID]*entry),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Start launches fn on its own goroutine. The job's context derives from
// parent, so cancelling parent cancels every job started from it.
func (r *Runner) Start(parent context.Context, kind string, fn Func) Job {
	ctx, cancel := context.WithCancel(parent)
	e := &entry{
		job: Job{
			ID:        uuid.New(),
			Kind:      kind,
			Status:    Pending,
			CreatedAt: r.now().UTC(),
		},
		cancel: cancel,
	}

	r.mu.Lock()
	r.jobs[e.job.ID] = e
	snapshot := e.job
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(ctx, e, fn)
	return snapshot
}

func (r *Runner) run(ctx context.Context, e *entry, fn Func) {
	defer r.wg.Done()
	defer e.cancel()

	r.mu.Lock()
	if e.job.Status == Cancelled {
		r.mu.Unlock()
		return
	}
	started := r.now().UTC()
	e.job.Status = Running
	e.job.StartedAt = &started
	r.mu.Unlock()

	result, err := fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	finished := r.now().UTC()
	if e.job.Status == Cancelled {
		// Cancel already stamped the terminal time.
		r.logger.Debug("job returned after cancel", "job_id", e.job.ID,
			"duration", finished.Sub(started).Round(time.Millisecond))
		return
	}
	e.job.FinishedAt = &finished
	switch {
	case errors.Is(err, context.Canceled):
		e.job.Status = Cancelled
	case err != nil:
		e.job.Status = Failed
		e.job.Error = err.Error()
		r.logger.Warn("job failed", "job_id", e.job.ID, "kind", e.job.Kind, "error", err)
	default:
		e.job.Status = Done
		e.job.Result = result
	}
	r.logger.Debug("job finished", "job_id", e.job.ID, "status", e.job.Status,
		"duration", finished.Sub(started).Round(time.Millisecond))
}

// Get returns a snapshot of the job.
func (r *Runner) Get(id uuid.UUID) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.jobs[id]
	if !ok || r.expired(e) {
		return Job{}, ErrNotFound
	}
	return e.job, nil
}

// Cancel stops a pending or running job. Cancelling a finished job is a
// no-op that returns its final state.
func (r *Runner) Cancel(id uuid.UUID) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.jobs[id]
	if !ok || r.expired(e) {
		return Job{}, ErrNotFound
	}
	if !e.job.Status.Finished() {
		e.cancel()
		e.job.Status = Cancelled
		finished := r.now().UTC()
		e.job.FinishedAt = &finished
	}
	return e.job, nil
}

// Sweep drops expired jobs and returns how many were removed.
func (r *Runner) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.jobs {
		if r.expired(e) {
			delete(r.jobs, id)
			n++
		}
	}
	return n
}

// Len returns the number of tracked jobs, expired ones included.
func (r *Runner) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// Wait blocks until every started job has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) expired(e *entry) bool {
	if !e.job.Status.Finished() || e.job.FinishedAt == nil {
		return false
	}
	return r.now().Sub(*e.job.FinishedAt) > r.ttl
}
