package contains

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb"
)

// Report is the outcome of a single containment run.
type Report struct {
	Results *Results
	// Elapsed is the time spent in the containment loop, excluding any time spent preparing the strategy.
	Elapsed time.Duration
}

// Milliseconds returns the elapsed time in whole milliseconds.
func (r *Report) Milliseconds() int64 {

	ms := r.Elapsed.Milliseconds()

	if ms < 0 {
		return 0
	}

	return ms
}

// Runner measures the time it takes to determine, for each point, whether it is contained by any one geometry in a collection.
type Runner struct {
	Strategy Strategy
}

// NewRunner returns a new `Runner` instance using the strategy defined by 'uri'.
func NewRunner(ctx context.Context, uri string) (*Runner, error) {

	s, err := NewStrategy(ctx, uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to create strategy for '%s', %w", uri, err)
	}

	r := &Runner{
		Strategy: s,
	}

	return r, nil
}

// Run prepares the runner's strategy with 'polygons' and then tests each member of 'points', in order, for containment.
// Members of 'points' are points or multi points; each yields exactly one result. Only the containment loop is timed.
func (r *Runner) Run(ctx context.Context, points orb.Collection, polygons orb.Collection) (*Report, error) {

	logger := slog.Default()
	logger = logger.With("points", len(points))
	logger = logger.With("polygons", len(polygons))

	t1 := time.Now()

	err := r.Strategy.Prepare(ctx, polygons)

	if err != nil {
		return nil, fmt.Errorf("Failed to prepare strategy, %w", err)
	}

	logger.Debug("Time to prepare", "time", time.Since(t1))

	results := NewResults(len(points))

	start := time.Now()

	for idx, pt := range points {

		ok, err := r.Strategy.Contains(ctx, pt)

		if err != nil {
			return nil, fmt.Errorf("Failed to determine containment for point at offset %d, %w", idx, err)
		}

		results.Append(ok)
	}

	elapsed := time.Since(start)

	logger.Debug("Time to contains", "time", elapsed, "contained", results.Count())

	rpt := &Report{
		Results: results,
		Elapsed: elapsed,
	}

	return rpt, nil
}

// Close releases the runner's strategy.
func (r *Runner) Close(ctx context.Context) error {
	return r.Strategy.Close(ctx)
}
