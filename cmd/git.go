package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/store"
	"github.com/tobagin/secrets/internal/workflows"
)

var gitCmd = &cobra.Command{
	Use:       "git <pull|push|status|log>",
	Short:     "Sync the store with its git remote",
	ValidArgs: []string{string(store.GitPull), string(store.GitPush), string(store.GitStatus), string(store.GitLog)},
	Long: `Runs one of a fixed set of git operations through pass git:

  pull    pull --rebase from the remote
  push    push local commits
  status  short branch status
  log     the last 20 commits

Set git.auto_push in the configuration to push after every change.`,
	Args: cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: runGit,
}

func runGit(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	op := store.GitOperation(args[0])
	var result *workflows.GitResult
	err := withSpinner("Running git "+args[0]+"...", func() (err error) {
		result, err = workflows.Git(ctx, App, workflows.GitOptions{Operation: op})
		return err
	})
	if err != nil {
		return err
	}

	if out := strings.TrimRight(result.Output, "\n"); out != "" {
		fmt.Println(out)
	}
	if op == store.GitPull || op == store.GitPush {
		fmt.Println(success("git %s finished", op))
	}
	return nil
}
