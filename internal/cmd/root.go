// Package cmd implements the CLI commands for hgrep.
package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/hgrep/internal/assemble"
	"github.com/runger/hgrep/internal/config"
	"github.com/runger/hgrep/internal/hound"
	"github.com/runger/hgrep/internal/render"
	"github.com/runger/hgrep/internal/search"
)

var (
	flagEndpoint     string
	flagRepos        string
	flagExcludeRepos string
	flagFiles        string
	flagAfter        int
	flagBefore       int
	flagContext      int
	colorMode        string
	flagIgnoreCase   bool
	flagLineNumber   bool
	flagBatchSize    int
	flagWorkers      int
	flagTimeout      int
	flagVerbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "hgrep [flags] <pattern>",
	Short: "grep over a remote Hound code-search server",
	Long: `hgrep searches a remote Hound code-search server and prints the
matches in grep's format, fetching large result sets in parallel.

Examples:
  hgrep 'func main'                      # search everything
  hgrep --repos linux,git -n 'TODO'      # two repos, with line numbers
  hgrep -C 2 -i 'retry.*backoff'         # two lines of context, any case`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSearch,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagRepos, "repos", "*", "comma-separated repositories to search")
	flags.StringVar(&flagExcludeRepos, "exclude-repos", "", "comma-separated repositories to skip")
	flags.StringVarP(&flagFiles, "files", "f", "", "only search files whose path matches this pattern")
	flags.IntVarP(&flagAfter, "after-context", "A", 0, "print NUM lines of trailing context")
	flags.IntVarP(&flagBefore, "before-context", "B", 0, "print NUM lines of leading context")
	flags.IntVarP(&flagContext, "context", "C", 0, "print NUM lines of surrounding context")
	flags.StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")
	flags.BoolVarP(&flagIgnoreCase, "ignore-case", "i", false, "match case-insensitively")
	flags.BoolVarP(&flagLineNumber, "line-number", "n", false, "print line numbers")
	flags.IntVar(&flagBatchSize, "batch-size", 0, "window width once windowing becomes necessary (default from config)")
	flags.IntVar(&flagWorkers, "workers", 0, "concurrent window fetches (default from config)")
	flags.IntVar(&flagTimeout, "timeout", 0, "per-request timeout in seconds (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "base URL of the Hound server (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(versionCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	setupLogging()

	spec := assemble.ContextSpec{
		Before:  flagBefore,
		After:   flagAfter,
		Context: flagContext,
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	ctx := cmd.Context()
	repos, err := hound.ResolveRepos(ctx, client, flagRepos, flagExcludeRepos)
	if err != nil {
		return err
	}

	q := hound.Query{
		Pattern:     args[0],
		Repos:       repos,
		PathPattern: flagFiles,
		IgnoreCase:  flagIgnoreCase,
	}
	results, err := search.Run(ctx, client, q, search.Options{
		BatchSize:      cfg.BatchSize,
		Workers:        cfg.Workers,
		CollectTimeout: time.Duration(cfg.CollectTimeoutSecs) * time.Second,
	})
	if err != nil {
		return err
	}

	renderer, err := render.New(args[0], flagIgnoreCase, colorEnabled(colorMode), flagLineNumber)
	if err != nil {
		return err
	}
	return renderer.Render(os.Stdout, assemble.Lines(results, spec))
}

// loadConfig reads the config file and lets explicit flags win.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagEndpoint != "" {
		cfg.Endpoint = flagEndpoint
	}
	if flagBatchSize > 0 {
		cfg.BatchSize = flagBatchSize
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flagTimeout > 0 {
		cfg.TimeoutSecs = flagTimeout
	}
	return cfg, cfg.Validate()
}

func newClient(cfg *config.Config) *hound.Client {
	return hound.NewClient(cfg.Endpoint, hound.Options{
		Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
	})
}

func setupLogging() {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
