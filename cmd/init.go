package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var initCmd = &cobra.Command{
	Use:   "init [gpg-id...]",
	Short: "Initialize the password store",
	Long: `Initializes the password store for the given GPG key IDs, or for the
first usable secret key when none are given.

Running init on an existing store re-encrypts every entry for the new
recipients.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	var result *workflows.InitResult
	err := withSpinner("Initializing password store...", func() (err error) {
		result, err = workflows.Init(ctx, App, workflows.InitOptions{GPGIDs: args})
		return err
	})
	if err != nil {
		return err
	}

	verb := "Initialized"
	if result.Reinitialized {
		verb = "Re-encrypted"
	}
	fmt.Println(success("%s %s for %s", verb, ui.Path.Sprint(result.StoreDir), ui.Highlight.Sprint(strings.Join(result.GPGIDs, ", "))))
	return nil
}
