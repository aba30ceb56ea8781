package hound

import "fmt"

// Window is a half-open range [Start, End) of a repository's
// ordinally-numbered matching files. The zero value is the probe
// sentinel: it encodes to the empty string, which asks the server to
// pick its own first window.
type Window struct {
	Start int
	End   int
}

// Probe is the sentinel window used for the initial range-less fetch.
var Probe = Window{}

// IsProbe reports whether w is the probe sentinel.
func (w Window) IsProbe() bool {
	return w.Start == 0 && w.End == 0
}

// Width returns the number of files the window covers.
func (w Window) Width() int {
	return w.End - w.Start
}

// String returns the server encoding: "start:end", or "" for the probe.
func (w Window) String() string {
	if w.IsProbe() {
		return ""
	}
	return fmt.Sprintf("%d:%d", w.Start, w.End)
}

// Halve returns the window shrunk to half its width, keeping Start.
// Halving a width-1 window yields an empty window; callers treat that
// as exhaustion.
func (w Window) Halve() Window {
	return Window{Start: w.Start, End: w.Start + w.Width()/2}
}

// Split divides the window into two halves at its midpoint.
func (w Window) Split() (Window, Window) {
	mid := w.Start + w.Width()/2
	return Window{Start: w.Start, End: mid}, Window{Start: mid, End: w.End}
}
