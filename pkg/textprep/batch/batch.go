// Package batch runs many documents through a textprep pipeline in parallel
// and optionally persists the results.
package batch

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/textprep/pkg/textprep"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/store"
)

// Input is one document to process.
type Input struct {
	Source string
	Text   string
}

// Result is the outcome for one Input, at the same index as its input.
// Err is set for per-document failures (oversized input); such documents
// are not stored.
type Result struct {
	ID     string
	Source string
	Output string
	Tokens []string
	Err    error
}

// Options configures a Runner.
type Options struct {
	// Store receives every successful result. Nil disables persistence.
	Store   store.Store
	Workers int
	Logger  *zap.Logger
}

// Runner processes batches with a bounded worker pool.
type Runner struct {
	pipeline *textprep.Pipeline
	store    store.Store
	workers  int
	log      *zap.Logger
	entropy  *ulid.MonotonicEntropy
	now      func() time.Time
}

// NewRunner creates a runner over p.
func NewRunner(p *textprep.Pipeline, opts Options) *Runner {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		pipeline: p,
		store:    opts.Store,
		workers:  workers,
		log:      log,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		now:      time.Now,
	}
}

// Run processes inputs and returns one Result per input, in input order.
// IDs are ULIDs assigned in input order before any work starts. A store
// failure or context cancellation aborts the batch and is returned.
func (r *Runner) Run(ctx context.Context, inputs []Input) ([]Result, error) {
	results := make([]Result, len(inputs))
	for i, in := range inputs {
		results[i] = Result{
			ID:     ulid.MustNew(ulid.Now(), r.entropy).String(),
			Source: in.Source,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return r.process(gctx, inputs[i], &results[i])
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	r.log.Info("batch complete",
		zap.Int("docs", len(inputs)),
		zap.Int("failed", countFailed(results)),
	)
	return results, nil
}

func (r *Runner) process(ctx context.Context, in Input, res *Result) error {
	out, err := r.pipeline.Run(ctx, in.Text)
	if err != nil {
		if errors.Is(err, internalerr.ErrInputTooLarge) {
			r.log.Warn("document skipped", zap.String("source", in.Source), zap.Error(err))
			res.Err = err
			return nil
		}
		return err
	}
	res.Output = out.Output
	res.Tokens = out.Tokens

	if r.store == nil {
		return nil
	}
	id, err := r.store.PutDoc(ctx, store.Doc{
		ID:          res.ID,
		Source:      in.Source,
		Output:      out.Output,
		Tokens:      out.Tokens,
		ProcessedAt: r.now(),
	})
	if err != nil {
		return fmt.Errorf("store %s: %w", in.Source, err)
	}
	// A re-processed source keeps its stored ID.
	res.ID = id
	return nil
}

func countFailed(results []Result) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}
