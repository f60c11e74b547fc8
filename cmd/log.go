package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/audit"
	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logUser      string
	logOperation string
	logPath      string
	logFailed    bool
	logSince     string
	logUntil     string
	logOneline   bool
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logUser, "user", "", "filter by local user name")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logPath, "path", "", "filter by entry path or folder")
	logCmd.Flags().BoolVar(&logFailed, "failed", false, "show only failed operations")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of store operations.

Shows which entries were read, copied or changed and when. Use filters to
narrow down the results.

Examples:
  secrets log                           # View full log
  secrets log -n 10                     # Last 10 entries
  secrets log --reverse                 # Most recent first
  secrets log --operation copy,show     # Filter by operation
  secrets log --path email              # Entries in a folder
  secrets log --failed                  # Only failures
  secrets log --since 2024-01-01        # Filter by date
  secrets log --json                    # JSON output`,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	opts := workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		User:       logUser,
		Operations: logOperation,
		Path:       logPath,
		FailedOnly: logFailed,
		Since:      logSince,
		Until:      logUntil,
	}

	result, err := workflows.Log(cmd.Context(), App, opts)
	if err != nil {
		fmt.Println(formatLogError(err))
		if isLogUnexpectedError(err) {
			return shown(err)
		}
		return nil
	}

	App.Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	App.Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	if logJSON {
		return outputLogJSON(result.Entries)
	}
	if logOneline {
		outputLogOneline(result.Entries)
		return nil
	}
	outputLogDefault(result.Entries)
	return nil
}

// formatLogError formats a log error for display to the user.
func formatLogError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrNoAuditLog):
		msg := ui.Info.Sprint("ℹ") + " No audit log found. Operations will be logged as you use the store."
		if !App.Audit.Enabled() {
			msg += "\n" + ui.Info.Sprint("→") + " Auditing is off; set " + ui.Code.Sprint("compliance.audit_enabled") + " to enable it"
		}
		return msg
	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return ui.Error.Sprint("✗") + " " + err.Error()
	default:
		return ui.Error.Sprint("✗") + " Failed to read audit log: " + err.Error()
	}
}

// isLogUnexpectedError returns true if the error should cause a non-zero exit.
func isLogUnexpectedError(err error) bool {
	return !errors.Is(err, kerrors.ErrNoAuditLog)
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogOneline(entries []audit.Entry) {
	for _, e := range entries {
		date := workflows.FormatDateTime(e.Timestamp)
		if len(date) > 10 {
			date = date[:10]
		}
		fmt.Printf("%s %s %s %s\n", date, e.Operation, logStatus(e), workflows.FormatDetails(e))
	}
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		datetime := workflows.FormatDateTime(e.Timestamp)
		fmt.Printf("%-19s  %-12s  %-10s  %s  %s\n", datetime, e.User, e.Operation, logStatus(e), workflows.FormatDetails(e))
		if e.Error != "" {
			fmt.Printf("%21s%s\n", "", ui.Muted.Sprint(e.Error))
		}
	}
}

func logStatus(e audit.Entry) string {
	if e.OK {
		return ui.Success.Sprint("✓")
	}
	return ui.Error.Sprint("✗")
}
