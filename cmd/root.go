// Package cmd implements the secrets command line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tobagin/secrets/internal/app"
)

var (
	verbose  bool
	debug    bool
	storeDir string

	// App is the context of the running command. It is opened before every
	// subcommand and closed by Execute.
	App *app.Context

	// openApp builds the Context; tests replace it.
	openApp = app.Open

	RootCmd = &cobra.Command{
		Use:   "secrets",
		Short: "Manage a pass password store",
		Long: `Secrets is a front-end for the standard Unix password manager (pass).

It lists, shows, copies, edits and organizes the GPG-encrypted entries of a
password store, keeps colours, icons and favicons for them, generates TOTP
codes and syncs the store with git.

The store location follows PASSWORD_STORE_DIR (default ~/.password-store)
and can be overridden with --store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(app.Options{
				StoreDir: storeDir,
				Verbose:  verbose,
				Debug:    debug,
			})
			if err != nil {
				return err
			}
			App = a
			App.Logger.Debugf("Running %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&storeDir, "store", "", "password store directory")

	RootCmd.AddCommand(lsCmd)
	RootCmd.AddCommand(showCmd)
	RootCmd.AddCommand(copyCmd)
	RootCmd.AddCommand(insertCmd)
	RootCmd.AddCommand(rmCmd)
	RootCmd.AddCommand(mvCmd)
	RootCmd.AddCommand(searchCmd)
	RootCmd.AddCommand(warmCmd)
	RootCmd.AddCommand(otpCmd)
	RootCmd.AddCommand(metaCmd)
	RootCmd.AddCommand(gitCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(doctorCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(configCmd)
}

// Execute runs the root command and releases the Context afterwards.
func Execute() error {
	err := RootCmd.Execute()
	var se shownError
	if err != nil && !errors.As(err, &se) {
		fmt.Fprintln(os.Stderr, failure(err))
	}
	if App != nil {
		if cerr := App.Close(); cerr != nil {
			App.Logger.Warnf("Failed to flush state: %v", cerr)
		}
		App = nil
	}
	return err
}

// ResetGlobalState restores every flag of the command tree to its default
// for testing.
func ResetGlobalState() {
	resetFlags(RootCmd)
	resetDoctorCommandState()
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
