package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/utils"
	"github.com/tobagin/secrets/internal/workflows"
)

var (
	rmRecursive bool
	rmForce     bool
)

func init() {
	rmCmd.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "delete a folder and everything in it")
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "skip confirmation prompt")
}

var rmCmd = &cobra.Command{
	Use:     "rm <path>",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a password entry or folder",
	Long: `Deletes an entry, or with --recursive a folder, together with its
colours, icons and favicon.

On a terminal the deletion must be confirmed unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !rmForce && utils.IsTerminal() {
		question := "Delete " + ui.Path.Sprint(path) + "?"
		if rmRecursive && App.Store.FolderExists(path) {
			question = "Delete " + ui.Path.Sprint(path) + " and everything in it?"
			if entries := entriesBelow(path); len(entries) > 0 {
				fmt.Print("The following entries will be deleted:" + utils.FormatPaths(entries))
			}
		}
		if !confirm(question) {
			fmt.Println(ui.Info.Sprint("ℹ") + " Nothing was deleted")
			return nil
		}
	}

	ctx, cancel := commandContext()
	defer cancel()

	var result *workflows.DeleteResult
	err := withSpinner("Deleting "+path+"...", func() (err error) {
		result, err = workflows.Delete(ctx, App, workflows.DeleteOptions{Path: path, Recursive: rmRecursive})
		return err
	})
	if err != nil {
		return err
	}

	if result.Folder {
		fmt.Println(success("Deleted folder %s", ui.Path.Sprint(result.Path)))
	} else {
		fmt.Println(success("Deleted %s", ui.Path.Sprint(result.Path)))
	}
	return nil
}

func entriesBelow(folder string) []string {
	all, err := App.Store.ListPasswords()
	if err != nil {
		App.Logger.Warnf("Could not list entries: %v", err)
		return nil
	}
	var below []string
	for _, p := range all {
		if strings.HasPrefix(p, folder+"/") {
			below = append(below, p)
		}
	}
	return below
}
