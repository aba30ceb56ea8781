package cmd

import "github.com/muesli/termenv"

// colorEnabled resolves the --color mode. "auto" enables color only when
// stdout is a terminal with color support, honoring NO_COLOR and
// TERM=dumb.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if termenv.EnvNoColor() {
			return false
		}
		return termenv.ColorProfile() != termenv.Ascii
	}
}
