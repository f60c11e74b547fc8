package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var (
	copyClearAfter time.Duration
	copyNoClear    bool
)

func init() {
	copyCmd.Flags().DurationVar(&copyClearAfter, "clear-after", 0, "clear the clipboard after this long (default security.clipboard_timeout)")
	copyCmd.Flags().BoolVar(&copyNoClear, "no-clear", false, "leave the password on the clipboard and exit")
}

var copyCmd = &cobra.Command{
	Use:     "copy <path>",
	Aliases: []string{"cp", "clip"},
	Short:   "Copy a password to the clipboard",
	Long: `Decrypts an entry and copies its first line to the clipboard.

The command then waits and clears the clipboard after
security.clipboard_timeout seconds, unless the clipboard was changed in the
meantime. Press Ctrl+C to clear it right away.`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

func runCopy(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	opts := workflows.CopyOptions{Path: args[0], ClearAfter: copyClearAfter}
	if copyNoClear {
		opts.ClearAfter = -1
	}

	var result *workflows.CopyResult
	err := withSpinner("Decrypting "+args[0]+"...", func() (err error) {
		result, err = workflows.Copy(ctx, App, opts)
		return err
	})
	if err != nil {
		return err
	}

	if result.ClearAfter <= 0 {
		fmt.Println(success("Copied password of %s to the clipboard", ui.Path.Sprint(result.Path)))
		return nil
	}

	fmt.Println(success("Copied password of %s to the clipboard, clearing in %s",
		ui.Path.Sprint(result.Path), result.ClearAfter.Round(time.Second)))
	if err := workflows.ClearClipboard(ctx, App, result); err != nil {
		fmt.Println(failure(err))
		return shown(err)
	}
	fmt.Println(ui.Info.Sprint("ℹ") + " Clipboard cleared")
	return nil
}
