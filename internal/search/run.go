package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/runger/hgrep/internal/hound"
)

// Options tunes a run. Zero fields fall back to defaults.
type Options struct {
	BatchSize      int
	Workers        int
	CollectTimeout time.Duration
	Logger         *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.CollectTimeout <= 0 {
		o.CollectTimeout = DefaultCollectTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Run retrieves the complete result set for a query: one synchronous
// probe, then a concurrent fan-out over the remaining windows, then a
// merge in planned window order. A probe that succeeds with the sentinel
// window already holds everything and skips the fan-out.
func Run(ctx context.Context, s Searcher, q hound.Query, opts Options) (map[string]hound.RepoResult, error) {
	opts = opts.withDefaults()

	initial, w, err := Probe(ctx, s, q, opts.BatchSize)
	if err != nil {
		return nil, err
	}
	if w.IsProbe() {
		return initial, nil
	}

	sum := NewSummary(initial)
	windows := PlanWindows(sum, w)
	if len(windows) == 0 {
		return initial, nil
	}
	opts.Logger.Debug("fetching remaining windows",
		"windows", len(windows), "width", w.Width(), "max", sum.MaxTotal())

	fetched, err := fetchAll(ctx, s, q, windows, opts.Workers, opts.CollectTimeout)
	if err != nil {
		return nil, err
	}

	merged := initial
	for _, r := range fetched {
		merged = mergeResults(merged, r)
	}
	return merged, nil
}
