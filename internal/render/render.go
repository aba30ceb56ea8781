// Package render formats assembled lines as grep-compatible text.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/runger/hgrep/internal/assemble"
)

// Color templates matching grep's defaults, see GREP_COLORS in grep(1).
const (
	colorRepo       = "\033[1m%s\033[0m"         // repo name: bold
	colorDelimiter  = "\033[36m%s\033[0m"        // se: cyan
	colorFilename   = "\033[35m%s\033[0m"        // fn: magenta
	colorMatch      = "\033[1m\033[31m%s\033[0m" // ms/mc/mt: bold red
	colorLineNumber = "\033[32m%s\033[0m"        // ln: green
)

// Renderer prints assembled lines in grep's repo:file:line format, with
// '-' delimiters on context lines.
type Renderer struct {
	ShowLineNumbers bool
	Color           bool

	pattern *regexp.Regexp // match highlighting, nil when color is off
}

// New builds a renderer. The pattern is only compiled when coloring is
// on; the server has already validated it as a search expression, but a
// dialect mismatch still surfaces here as an error.
func New(pattern string, ignoreCase, color, lineNumbers bool) (*Renderer, error) {
	r := &Renderer{ShowLineNumbers: lineNumbers, Color: color}
	if color {
		expr := pattern
		if ignoreCase {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("cannot highlight matches for pattern %q: %w", pattern, err)
		}
		r.pattern = re
	}
	return r, nil
}

// Render writes every line to w.
func (r *Renderer) Render(w io.Writer, lines []assemble.Line) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, r.format(l)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) format(l assemble.Line) string {
	delim := ":"
	if l.Kind == assemble.KindContext {
		delim = "-"
	}

	repo := l.Repo
	filename := l.Filename
	number := strconv.Itoa(l.Number)
	text := l.Text
	if r.Color {
		repo = fmt.Sprintf(colorRepo, repo)
		filename = fmt.Sprintf(colorFilename, filename)
		number = fmt.Sprintf(colorLineNumber, number)
		delim = fmt.Sprintf(colorDelimiter, delim)
		text = r.pattern.ReplaceAllStringFunc(text, func(m string) string {
			return fmt.Sprintf(colorMatch, m)
		})
	}

	if r.ShowLineNumbers {
		return repo + ":" + filename + delim + number + delim + text
	}
	return repo + ":" + filename + delim + text
}
