package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/logger"
	"github.com/abhisek/lessonforge/internal/pipeline"
)

// Generator builds one lesson. Each job gets its own call, so every lesson
// has its own quality tracker.
type Generator interface {
	Generate(ctx context.Context, req lesson.Request, ext *lesson.Extraction) (*pipeline.Result, error)
}

// Outcome is the result of one job. Exactly one of Result and Err is set.
type Outcome struct {
	Job      Job
	Result   *pipeline.Result
	Err      error
	Duration time.Duration
}

// Runner generates jobs with at most Concurrency lessons in flight.
type Runner struct {
	gen         Generator
	concurrency int
	log         *logger.Logger

	// OnDone, if set, is called after each job finishes. Calls are
	// serialized.
	OnDone func(Outcome)
}

// NewRunner returns a runner. concurrency below 1 is treated as 1.
func NewRunner(gen Generator, concurrency int, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{gen: gen, concurrency: max(concurrency, 1), log: log}
}

// Run generates every job. A failed lesson does not stop the others;
// cancelling ctx does. Outcomes are returned in job order.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	var mu sync.Mutex
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{Job: job, Err: err}
				return err
			}

			start := time.Now()
			res, err := r.gen.Generate(gctx, job.Request, job.Extraction)
			out := Outcome{Job: job, Result: res, Err: err, Duration: time.Since(start)}
			outcomes[i] = out

			if err != nil {
				r.log.Warn("batch job failed", "job", job.Name, "error", err.Error())
			} else {
				r.log.Info("batch job done", "job", job.Name, "lesson_id", res.Lesson.ID,
					"score", res.Quality.OverallScore)
			}
			if r.OnDone != nil {
				mu.Lock()
				r.OnDone(out)
				mu.Unlock()
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, fmt.Errorf("batch cancelled: %w", err)
	}
	return outcomes, nil
}

// Failed counts the outcomes that carry an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// ErrJobsFailed is returned by callers that treat any failed job as a
// failed batch.
var ErrJobsFailed = errors.New("one or more batch jobs failed")
