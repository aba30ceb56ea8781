// Package assemble turns raw server matches into the ordered,
// deduplicated line sequence the renderer prints.
package assemble

import (
	"errors"
	"sort"

	"github.com/runger/hgrep/internal/hound"
)

// Kind classifies an output line. KindMatch must order before
// KindContext: the per-file merge sorts by (line number, kind) and keeps
// the first entry per number, so a line that is both a match and another
// match's context stays a match.
type Kind int

const (
	KindMatch Kind = iota + 1
	KindContext
)

// Line is one unit of final output.
type Line struct {
	Repo     string
	Filename string
	Number   int
	Kind     Kind
	Text     string
}

// ContextSpec carries the grep-style context options. Context is the
// symmetric -C count; Before/After are the independent -B/-A counts. The
// two forms are mutually exclusive.
type ContextSpec struct {
	Before  int
	After   int
	Context int
}

// Validate rejects impossible or contradictory context requests.
func (c ContextSpec) Validate() error {
	if c.Before < 0 || c.After < 0 || c.Context < 0 {
		return errors.New("context line counts must not be negative")
	}
	if c.Context > 0 && (c.Before > 0 || c.After > 0) {
		return errors.New("--context cannot be combined with --before-context or --after-context")
	}
	return nil
}

// requested reports whether any context lines were asked for.
func (c ContextSpec) requested() bool {
	return c.Before > 0 || c.After > 0 || c.Context > 0
}

// split resolves the spec into concrete before/after counts for a match
// whose following-context array holds available lines. The symmetric
// form distributes Context-1 lines as ceil/floor halves, caps the after
// count at what the server returned and hands the freed allowance back
// to the before side.
func (c ContextSpec) split(available int) (before, after int) {
	if c.Context > 0 {
		total := c.Context - 1 // the match line itself does not count
		before = (total + 1) / 2
		after = total - before
		if after > available {
			after = available
		}
		before = total - after
		return before, after
	}
	return c.Before, c.After
}

// Lines assembles the final output for a merged result set. Repositories
// are emitted in lexical order; files keep the order the windows
// returned them in. Assembly is a pure function of its inputs.
func Lines(results map[string]hound.RepoResult, spec ContextSpec) []Line {
	repos := make([]string, 0, len(results))
	for repo := range results {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	var out []Line
	for _, repo := range repos {
		for _, fm := range results[repo].Matches {
			var lines []Line
			for _, m := range fm.Matches {
				lines = append(lines, expand(repo, fm.Filename, m, spec)...)
			}
			if spec.requested() {
				lines = mergeFile(lines)
			}
			out = append(out, lines...)
		}
	}
	return out
}

// expand emits the match line plus its requested surrounding context,
// bounded by the context arrays the server actually returned.
func expand(repo, filename string, m hound.LineMatch, spec ContextSpec) []Line {
	before, after := spec.split(len(m.After))

	lines := make([]Line, 0, before+after+1)
	if before > 0 {
		ctx := m.Before
		if before < len(ctx) {
			ctx = ctx[len(ctx)-before:]
		}
		for i, text := range ctx {
			lines = append(lines, Line{
				Repo:     repo,
				Filename: filename,
				Number:   m.LineNumber - len(ctx) + i,
				Kind:     KindContext,
				Text:     text,
			})
		}
	}
	lines = append(lines, Line{
		Repo:     repo,
		Filename: filename,
		Number:   m.LineNumber,
		Kind:     KindMatch,
		Text:     m.Line,
	})
	if after > 0 {
		ctx := m.After
		if after < len(ctx) {
			ctx = ctx[:after]
		}
		for i, text := range ctx {
			lines = append(lines, Line{
				Repo:     repo,
				Filename: filename,
				Number:   m.LineNumber + i + 1,
				Kind:     KindContext,
				Text:     text,
			})
		}
	}
	return lines
}

// mergeFile collapses duplicate line numbers arising from overlapping
// match/context windows within one file. Sorting puts a Match before a
// Context at the same number, so keeping the first occurrence resolves
// the tie in favor of the match.
func mergeFile(lines []Line) []Line {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Number != lines[j].Number {
			return lines[i].Number < lines[j].Number
		}
		return lines[i].Kind < lines[j].Kind
	})

	seen := make(map[int]bool, len(lines))
	merged := lines[:0]
	for _, l := range lines {
		if seen[l.Number] {
			continue
		}
		seen[l.Number] = true
		merged = append(merged, l)
	}
	return merged
}
