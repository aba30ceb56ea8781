package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List the repositories the server indexes",
	Args:  cobra.NoArgs,
	RunE:  runRepos,
}

func runRepos(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repos, err := newClient(cfg).ListRepos(cmd.Context())
	if err != nil {
		return err
	}
	for _, repo := range repos {
		fmt.Println(repo)
	}
	return nil
}
