package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var mvCmd = &cobra.Command{
	Use:     "mv <from> <to>",
	Aliases: []string{"move", "rename"},
	Short:   "Rename a password entry or folder",
	Long: `Renames an entry or a folder. Colours, icons, favicons and cached
details move along with it. An existing destination is never overwritten.`,
	Args: cobra.ExactArgs(2),
	RunE: runMv,
}

func runMv(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	var result *workflows.MoveResult
	err := withSpinner("Moving "+args[0]+"...", func() (err error) {
		result, err = workflows.Move(ctx, App, workflows.MoveOptions{From: args[0], To: args[1]})
		return err
	})
	if err != nil {
		return err
	}

	kind := "entry"
	if result.Folder {
		kind = "folder"
	}
	fmt.Println(success("Moved %s %s to %s", kind, ui.Path.Sprint(result.From), ui.Path.Sprint(result.To)))
	return nil
}
