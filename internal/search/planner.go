// Package search drives a query end to end: probe the server for the
// initial result volume, plan the windows that cover the rest, fan the
// fetches out over a bounded worker pool and collect everything before
// assembly starts.
package search

import (
	"context"

	"github.com/runger/hgrep/internal/hound"
)

// DefaultBatchSize is the window width used once windowing becomes
// necessary.
const DefaultBatchSize = 50

// Searcher fetches one window of results. *hound.Client implements it.
type Searcher interface {
	Search(ctx context.Context, q hound.Query, w hound.Window) (hound.Outcome, error)
}

// Summary is the per-repository bookkeeping derived from the first
// successful batch: how many files match in total and how many are still
// unseen. It is plain state returned by the planner, never shared.
type Summary struct {
	Total       map[string]int
	Outstanding map[string]int
}

// NewSummary tallies the first batch. Outstanding is FilesWithMatch
// minus the files actually present in the batch.
func NewSummary(results map[string]hound.RepoResult) Summary {
	s := Summary{
		Total:       make(map[string]int, len(results)),
		Outstanding: make(map[string]int, len(results)),
	}
	for repo, r := range results {
		s.Total[repo] = r.FilesWithMatch
		s.Outstanding[repo] = r.FilesWithMatch - len(r.Matches)
	}
	return s
}

// Remaining reports whether any repository still has unseen files.
func (s Summary) Remaining() bool {
	for _, n := range s.Outstanding {
		if n > 0 {
			return true
		}
	}
	return false
}

// MaxTotal returns the largest FilesWithMatch across all repositories.
func (s Summary) MaxTotal() int {
	max := 0
	for _, n := range s.Total {
		if n > max {
			max = n
		}
	}
	return max
}

// Probe discovers a window size the server accepts. It first asks with
// the probe sentinel; on a "too many results" rejection it retries with
// [0, batchSize) and then keeps halving, but only after each observed
// overflow, never preemptively. When the window can shrink no further
// the run fails with ErrWindowExhausted.
func Probe(ctx context.Context, s Searcher, q hound.Query, batchSize int) (map[string]hound.RepoResult, hound.Window, error) {
	w := hound.Probe
	for {
		out, err := s.Search(ctx, q, w)
		if err != nil {
			return nil, w, err
		}
		if !out.TooMany {
			return out.Results, w, nil
		}
		if w.IsProbe() {
			w = hound.Window{End: batchSize}
			continue
		}
		w = w.Halve()
		if w.Width() == 0 {
			return nil, w, hound.ErrWindowExhausted
		}
	}
}

// PlanWindows computes the follow-up windows needed after a successful
// initial window. Windows are contiguous, non-overlapping slices of the
// initial width starting at [W, 2W), covering up to the largest
// repository's FilesWithMatch; the final window is clamped so the set
// covers [W, max) exactly. Repositories with fewer files simply return
// nothing for the later windows. Pure function of its inputs.
func PlanWindows(sum Summary, initial hound.Window) []hound.Window {
	if initial.IsProbe() || !sum.Remaining() {
		return nil
	}
	width := initial.Width()
	max := sum.MaxTotal()

	var windows []hound.Window
	for start := width; start < max; start += width {
		end := start + width
		if end > max {
			end = max
		}
		windows = append(windows, hound.Window{Start: start, End: end})
	}
	return windows
}
