package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var (
	doctorJSONOutput bool
	// doctorExitFunc is called with the exit code; tests replace it.
	doctorExitFunc = os.Exit
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
}

func resetDoctorCommandState() {
	doctorExitFunc = os.Exit
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the password store setup",
	Long: `Verifies that everything secrets relies on is in place: the pass and
gpg binaries, an initialized store whose .gpg-id recipients all have
public keys, a secret key to decrypt with, private permissions on the
store directory, a readable config file and, when present, the git
repository used for syncing.

Problems are reported as warnings or errors together with a suggested
fix. The exit status is 2 when any error was found, 1 when only warnings
were found and 0 otherwise, so the command can gate scripts.

Examples:
  secrets doctor
  secrets doctor --json | jq '.checks[] | select(.status != "pass")'`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	var result *workflows.DoctorResult
	err := withSpinner("Running health checks...", func() (err error) {
		result, err = workflows.Doctor(ctx, App, workflows.DoctorOptions{})
		return err
	})
	if err != nil {
		return err
	}

	for _, check := range result.Checks {
		App.Logger.Debugf("Check %s: status=%s, message=%s", check.Name, check.Status, check.Message)
	}

	if doctorJSONOutput {
		if err := outputDoctorJSON(result); err != nil {
			return err
		}
	} else {
		printDoctorResults(result)
	}

	// Flush the context before a non-zero exit skips Execute's cleanup.
	if result.Summary.Errors > 0 || result.Summary.Warnings > 0 {
		if err := App.Close(); err != nil {
			App.Logger.Warnf("Failed to flush state: %v", err)
		}
	}
	if result.Summary.Errors > 0 {
		doctorExitFunc(2)
	} else if result.Summary.Warnings > 0 {
		doctorExitFunc(1)
	}
	return nil
}

func outputDoctorJSON(result *workflows.DoctorResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// printDoctorResults lists each check with its outcome, then the totals
// and any suggested fixes.
func printDoctorResults(result *workflows.DoctorResult) {
	icons := map[workflows.CheckStatus]string{
		workflows.CheckPass:    ui.Success.Sprint("✓"),
		workflows.CheckWarning: ui.Warning.Sprint("⚠"),
		workflows.CheckError:   ui.Error.Sprint("✗"),
	}
	for _, check := range result.Checks {
		fmt.Printf("%s %-12s %s\n", icons[check.Status], check.Name, check.Message)
	}

	total := len(result.Checks)
	fmt.Printf("\n%d of %d checks passed", result.Summary.Passed, total)
	var issues []string
	if n := result.Summary.Errors; n > 0 {
		issues = append(issues, ui.Error.Sprintf("%d failing", n))
	}
	if n := result.Summary.Warnings; n > 0 {
		issues = append(issues, ui.Warning.Sprintf("%d with warnings", n))
	}
	if len(issues) > 0 {
		fmt.Printf(" (%s)", strings.Join(issues, ", "))
	}
	fmt.Println()

	if len(result.Suggestions) == 0 {
		return
	}
	fmt.Println("\nTo fix:")
	for _, suggestion := range result.Suggestions {
		fmt.Printf("  %s %s\n", ui.Info.Sprint("→"), suggestion)
	}
}
