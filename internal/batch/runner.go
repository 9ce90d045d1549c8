// Package batch fans independent generation tasks out in fixed-size
// batches and collects every outcome without letting one failure stop the
// others.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/coursesmith/internal/logging"
)

// Task is one independent unit of work, typically one module's generation.
type Task[T any] func(ctx context.Context) (T, error)

// Result is the outcome at one output slot. Err non-nil means the slot is
// empty; Value is then the zero value.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the task succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Pacer delays task starts. *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Config holds batching policy.
type Config struct {
	Size            int           `koanf:"size"`
	InterBatchDelay time.Duration `koanf:"inter_batch_delay"`
}

// DefaultConfig returns batches of 3 with a 1s pause between batches.
func DefaultConfig() Config {
	return Config{
		Size:            3,
		InterBatchDelay: time.Second,
	}
}

const component = "batch"

// Runner executes task lists batch by batch. It has no retry logic; retries
// belong to the LLM gate underneath the tasks.
type Runner struct {
	cfg   Config
	pacer Pacer
	log   zerolog.Logger
}

// NewRunner creates a Runner. pacer may be nil.
func NewRunner(cfg Config, pacer Pacer, log zerolog.Logger) *Runner {
	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig().Size
	}
	return &Runner{
		cfg:   cfg,
		pacer: pacer,
		log:   log.With().Str("component", component).Logger(),
	}
}

// Run executes tasks in contiguous batches of the configured size. All
// tasks of a batch run concurrently and are all awaited; batch N+1 starts
// only after batch N has joined. Output order matches input order. A failed
// task leaves an error in its slot and is logged; it never cancels its
// siblings or later batches. If ctx is cancelled, slots not yet started
// carry ctx.Err().
func Run[T any](ctx context.Context, r *Runner, name string, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))
	log := logging.FromContext(ctx, r.log, component).With().Str("batch", name).Logger()

	for start := 0; start < len(tasks); start += r.cfg.Size {
		end := min(start+r.cfg.Size, len(tasks))

		if start > 0 {
			if err := Sleep(ctx, r.cfg.InterBatchDelay); err != nil {
				fillErr(results[start:], err)
				log.Warn().Err(err).Int("remaining", len(tasks)-start).Msg("batch run cancelled")
				return results
			}
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			if r.pacer != nil {
				if err := r.pacer.Wait(ctx); err != nil {
					results[i] = Result[T]{Err: err}
					continue
				}
			}
			g.Go(func() error {
				results[i] = runOne(ctx, tasks[i])
				if err := results[i].Err; err != nil {
					log.Warn().Err(err).Int("index", i).Msg("task failed")
				}
				return nil
			})
		}
		_ = g.Wait()

		log.Debug().Int("from", start).Int("to", end-1).Msg("batch joined")
	}

	return results
}

// Values maps results to a nullable sequence: nil where the task failed.
func Values[T any](results []Result[T]) []*T {
	out := make([]*T, len(results))
	for i := range results {
		if results[i].OK() {
			v := results[i].Value
			out[i] = &v
		}
	}
	return out
}

// Failed returns the indexes of failed slots in ascending order.
func Failed[T any](results []Result[T]) []int {
	var idx []int
	for i, r := range results {
		if !r.OK() {
			idx = append(idx, i)
		}
	}
	return idx
}

func runOne[T any](ctx context.Context, task Task[T]) (res Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			res = Result[T]{Err: fmt.Errorf("task panicked: %v", p)}
		}
	}()
	v, err := task(ctx)
	if err != nil {
		return Result[T]{Err: err}
	}
	return Result[T]{Value: v}
}

func fillErr[T any](results []Result[T], err error) {
	for i := range results {
		results[i] = Result[T]{Err: err}
	}
}

// Sleep waits for d or until ctx is done, whichever comes first. It returns
// ctx.Err() in the latter case.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
