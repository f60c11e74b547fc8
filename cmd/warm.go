package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var (
	warmFolder  string
	warmWorkers int
)

func init() {
	warmCmd.Flags().StringVar(&warmFolder, "folder", "", "only decrypt entries below this folder")
	warmCmd.Flags().IntVarP(&warmWorkers, "workers", "w", 0, "maximum parallel decryptions (default bulk.max_concurrent)")
}

var warmCmd = &cobra.Command{
	Use:   "warm [path...]",
	Short: "Decrypt entries in bulk to refresh cached details",
	Long: `Decrypts entries with a small worker pool and records which of them
carry a URL or a TOTP secret, so "secrets ls" can show it without
decrypting again.

The first few entries are decrypted one at a time so a single pinentry
prompt unlocks the GPG agent before the pool starts.`,
	RunE: runWarm,
}

func runWarm(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	var result *workflows.WarmResult
	err := withSpinner("Decrypting entries...", func() (err error) {
		result, err = workflows.Warm(ctx, App, workflows.WarmOptions{
			Paths:   args,
			Folder:  strings.Trim(warmFolder, "/"),
			Workers: warmWorkers,
		})
		return err
	})
	if err != nil {
		return err
	}

	if result.Total == 0 {
		fmt.Println(ui.Info.Sprint("ℹ") + " No entries to decrypt")
		return nil
	}

	for _, f := range result.Failed {
		fmt.Printf("%s %s: %s\n", ui.Error.Sprint("✗"), ui.Path.Sprint(f.Path), f.Error)
	}
	summary := fmt.Sprintf("Decrypted %d of %d entries (%d with TOTP, %d with URL)",
		result.Succeeded, result.Total, result.WithTOTP, result.WithURL)
	if len(result.Failed) > 0 {
		fmt.Println(ui.Warning.Sprint("⚠") + " " + summary)
		return nil
	}
	fmt.Println(success("%s", summary))
	return nil
}
