// Package main is the entry point for the hgrep CLI.
package main

import (
	"os"

	"github.com/runger/hgrep/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
