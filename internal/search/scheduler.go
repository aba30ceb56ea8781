package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/runger/hgrep/internal/hound"
)

const (
	// DefaultWorkers bounds the concurrent window fetches.
	DefaultWorkers = 10
	// DefaultCollectTimeout bounds the wait for each completed outcome
	// when draining the worker pool after the join barrier.
	DefaultCollectTimeout = 2 * time.Second
)

type windowOutcome struct {
	index   int
	results map[string]hound.RepoResult
}

// fetchAll executes the planned windows concurrently, bounded by the
// worker count, and returns the per-window results in planned order.
// The first transport, protocol or server error aborts the whole fan-out
// via context cancellation; there is no partial-result mode.
func fetchAll(ctx context.Context, s Searcher, q hound.Query, windows []hound.Window, workers int, collect time.Duration) ([]map[string]hound.RepoResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	done := make(chan windowOutcome, len(windows))
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			results, err := fetchWindow(gctx, s, q, w)
			if err != nil {
				return err
			}
			done <- windowOutcome{index: i, results: results}
			return nil
		})
	}

	// Join barrier: every fetch completes (or the first failure cancels
	// the rest) before any outcome is consumed.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]map[string]hound.RepoResult, len(windows))
	for range windows {
		select {
		case out := <-done:
			results[out.index] = out.results
		case <-time.After(collect):
			return nil, fmt.Errorf("timed out after %s waiting for window results", collect)
		}
	}
	return results, nil
}

// fetchWindow fetches one window. A follow-up window can itself overflow
// the server's result ceiling; that window is split into two halves and
// both are fetched, recursively. A width-1 window that still overflows
// means a single file carries more matches than the server will serve,
// which is fatal.
func fetchWindow(ctx context.Context, s Searcher, q hound.Query, w hound.Window) (map[string]hound.RepoResult, error) {
	out, err := s.Search(ctx, q, w)
	if err != nil {
		return nil, err
	}
	if !out.TooMany {
		return out.Results, nil
	}
	if w.Width() <= 1 {
		return nil, hound.ErrWindowExhausted
	}

	lo, hi := w.Split()
	left, err := fetchWindow(ctx, s, q, lo)
	if err != nil {
		return nil, err
	}
	right, err := fetchWindow(ctx, s, q, hi)
	if err != nil {
		return nil, err
	}
	return mergeResults(left, right), nil
}

// mergeResults folds src into dst, concatenating per-repository matches.
// FilesWithMatch is a whole-query count, identical in every window.
func mergeResults(dst, src map[string]hound.RepoResult) map[string]hound.RepoResult {
	if dst == nil {
		dst = make(map[string]hound.RepoResult, len(src))
	}
	for repo, r := range src {
		cur, ok := dst[repo]
		if !ok {
			dst[repo] = r
			continue
		}
		cur.Matches = append(cur.Matches, r.Matches...)
		if r.FilesWithMatch > cur.FilesWithMatch {
			cur.FilesWithMatch = r.FilesWithMatch
		}
		dst[repo] = cur
	}
	return dst
}
