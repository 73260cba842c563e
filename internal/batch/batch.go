// Package batch runs the overwrite of every collected target with
// best-effort semantics: a failing path is recorded and the run moves on.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"dwipe/internal/collector"
	"dwipe/internal/config"
	"dwipe/internal/logging"
	"dwipe/internal/pattern"
	"dwipe/internal/wipe"
)

// ErrNotProcessed marks targets skipped because the run was interrupted.
var ErrNotProcessed = errors.New("not processed")

// Wiper overwrites and removes paths. *wipe.Overwriter implements it.
type Wiper interface {
	Overwrite(path string) error
	Remove(path string) error
	RemoveDir(dir string) error
	RemoveLink(link string) error
}

// Outcome is the result for one path. Dir marks directory and symlink
// removals, which do not count as wiped files.
type Outcome struct {
	Path string
	Dir  bool
	Err  error
}

// Report holds one Outcome per target, in target order, followed by the
// directory removals.
type Report struct {
	Outcomes []Outcome
}

// Wiped returns the number of files overwritten without error.
func (r Report) Wiped() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Dir && o.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that carry an error.
func (r Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// OK reports whether every path succeeded.
func (r Report) OK() bool {
	return len(r.Failed()) == 0
}

// Options configures a Runner.
type Options struct {
	// Progress receives verbose per-pass lines.
	Progress io.Writer
	Logger   *logging.AppLogger
	// OnFailure is called once per failed path, as soon as it fails.
	// Calls are serialized.
	OnFailure func(Outcome)
}

// Runner drives one Wiper per worker over a collection result.
type Runner struct {
	cfg       config.Config
	logger    *logging.AppLogger
	onFailure func(Outcome)
	newWiper  func(worker int) Wiper

	mu sync.Mutex
}

// NewRunner returns a Runner for cfg. Each worker gets its own generator
// seeded from cfg.Seed, or from a time-derived seed when it is zero.
func NewRunner(cfg config.Config, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = logging.GetDefault()
	}
	var progress io.Writer
	if opts.Progress != nil {
		progress = NewSyncWriter(opts.Progress)
	}

	base := cfg.Seed
	if base == 0 {
		base = pattern.NewSource(0).Uint64()
	}

	r := &Runner{
		cfg:       cfg,
		logger:    opts.Logger,
		onFailure: opts.OnFailure,
	}
	r.newWiper = func(worker int) Wiper {
		rng := pattern.NewSource(base + uint64(worker))
		var filler pattern.Filler = pattern.NewRandom(rng)
		if cfg.Shapes {
			filler = pattern.NewShape(rng)
		}
		return wipe.New(cfg, wipe.Options{
			Filler:   filler,
			Names:    rng,
			Progress: progress,
			Logger:   opts.Logger,
		})
	}
	return r
}

// Run wipes every resolved target of res and, with Remove set, deletes
// the files and then the walked directories, deepest first. Targets that
// failed collection are reported without being opened. Once ctx is done
// no new file is started; the remaining ones are reported as not
// processed.
func (r *Runner) Run(ctx context.Context, res collector.Result) Report {
	defer r.logger.LogPerformance("batch", time.Now())

	outcomes := make([]Outcome, len(res.Targets))
	if r.cfg.Jobs <= 1 || len(res.Targets) <= 1 {
		w := r.newWiper(0)
		for i, t := range res.Targets {
			outcomes[i] = r.process(ctx, w, t)
		}
	} else {
		r.runParallel(ctx, res.Targets, outcomes)
	}

	if r.cfg.Remove {
		outcomes = append(outcomes, r.removeDirs(ctx, res.Dirs, res.Links)...)
	}
	return Report{Outcomes: outcomes}
}

func (r *Runner) runParallel(ctx context.Context, targets []collector.Target, outcomes []Outcome) {
	jobs := r.cfg.Jobs
	sem := semaphore.NewWeighted(int64(jobs))

	// The semaphore admits at most jobs tasks, so a free wiper is always
	// waiting in the pool.
	pool := make(chan Wiper, jobs)
	for i := range jobs {
		pool <- r.newWiper(i)
	}

	var group errgroup.Group
	for i, t := range targets {
		if t.Failed() {
			outcomes[i] = r.record(Outcome{Path: t.Path, Err: t.Err})
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = r.record(Outcome{Path: t.Path, Err: notProcessed(err)})
			continue
		}
		group.Go(func() error {
			defer sem.Release(1)
			w := <-pool
			defer func() { pool <- w }()

			outcomes[i] = r.process(ctx, w, t)
			return nil
		})
	}
	_ = group.Wait()
}

// process handles one target. Collection failures pass straight through.
func (r *Runner) process(ctx context.Context, w Wiper, t collector.Target) Outcome {
	if t.Failed() {
		return r.record(Outcome{Path: t.Path, Err: t.Err})
	}
	if err := ctx.Err(); err != nil {
		return r.record(Outcome{Path: t.Path, Err: notProcessed(err)})
	}

	if err := w.Overwrite(t.Path); err != nil {
		return r.record(Outcome{Path: t.Path, Err: err})
	}
	if r.cfg.Remove {
		if err := w.Remove(t.Path); err != nil {
			return r.record(Outcome{Path: t.Path, Err: err})
		}
	}
	r.logger.Debug("Wiped", "path", t.Path, "size", t.Size)
	return Outcome{Path: t.Path}
}

// removeDirs removes the walked directories, deepest first, and then the
// symlink arguments that pointed at the removed files and directories.
func (r *Runner) removeDirs(ctx context.Context, dirs, links []string) []Outcome {
	if len(dirs) == 0 && len(links) == 0 {
		return nil
	}
	w := r.newWiper(0)
	outcomes := make([]Outcome, 0, len(dirs)+len(links))
	for _, dir := range dirs {
		outcomes = append(outcomes, r.removeOne(ctx, dir, w.RemoveDir))
	}
	for _, link := range links {
		outcomes = append(outcomes, r.removeOne(ctx, link, w.RemoveLink))
	}
	return outcomes
}

func (r *Runner) removeOne(ctx context.Context, path string, remove func(string) error) Outcome {
	if err := ctx.Err(); err != nil {
		return r.record(Outcome{Path: path, Dir: true, Err: notProcessed(err)})
	}
	if err := remove(path); err != nil {
		return r.record(Outcome{Path: path, Dir: true, Err: err})
	}
	return Outcome{Path: path, Dir: true}
}

func (r *Runner) record(o Outcome) Outcome {
	r.logger.Debug("Failed", "path", o.Path, "err", o.Err)
	if r.onFailure != nil {
		r.mu.Lock()
		r.onFailure(o)
		r.mu.Unlock()
	}
	return o
}

func notProcessed(cause error) error {
	return fmt.Errorf("%w: %w", ErrNotProcessed, cause)
}
