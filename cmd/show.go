package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/entry"
	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var (
	showReveal bool
	showRaw    bool
	showField  string
)

func init() {
	showCmd.Flags().BoolVar(&showReveal, "reveal", false, "show the password instead of masking it")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print the decrypted content unchanged")
	showCmd.Flags().StringVar(&showField, "field", "", "print only this field (password, username, url, otpauth or a custom key)")
}

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Decrypt and display a password entry",
	Long: `Decrypts an entry and displays its password, username, URL and other
fields. The password is masked unless --reveal is given or
ui.show_passwords is enabled in the configuration.

Examples:
  secrets show email/work
  secrets show email/work --reveal
  secrets show email/work --field username
  secrets show email/work --raw | less`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	var result *workflows.ShowResult
	err := withSpinner("Decrypting "+args[0]+"...", func() (err error) {
		result, err = workflows.Show(ctx, App, workflows.ShowOptions{Path: args[0]})
		return err
	})
	if err != nil {
		return err
	}

	switch {
	case showRaw:
		fmt.Print(result.Content)
		return nil
	case showField != "":
		value, ok := fieldValue(result.Entry, showField)
		if !ok {
			fmt.Println(ui.Error.Sprint("✗") + " Field " + ui.Highlight.Sprint(showField) + " not found in " + ui.Path.Sprint(result.Path))
			return shown(fmt.Errorf("field %q not found in %s", showField, result.Path))
		}
		fmt.Println(value)
		return nil
	}

	reveal := showReveal || App.Config.UI.ShowPasswords
	for _, line := range entryLines(result, reveal) {
		fmt.Println(line)
	}
	return nil
}

// entryLines formats a decrypted entry for display.
func entryLines(r *workflows.ShowResult, reveal bool) []string {
	e := r.Entry
	password := ui.Mask(e.Password)
	if reveal {
		password = e.Password
	}

	lines := []string{
		ui.Path.Sprint(r.Path) + "  " + ui.Swatch(r.Meta.Color),
		"Password: " + password,
	}
	if e.Username != "" {
		lines = append(lines, "Username: "+ui.Highlight.Sprint(e.Username))
	}
	if e.URL != "" {
		lines = append(lines, "URL:      "+ui.Highlight.Sprint(e.URL))
	}
	if e.HasTOTP() {
		lines = append(lines, "TOTP:     configured, run "+ui.Code.Sprint("secrets otp "+r.Path))
	}
	for _, f := range e.Fields {
		lines = append(lines, f.Key+": "+f.Value)
	}
	if e.Notes != "" {
		lines = append(lines, "", e.Notes)
	}
	return lines
}

// fieldValue looks up a well-known or custom field by name.
func fieldValue(e entry.Entry, name string) (string, bool) {
	switch strings.ToLower(name) {
	case "password", "pass":
		return e.Password, true
	case "username", "user", "login":
		return e.Username, e.Username != ""
	case "url":
		return e.URL, e.URL != ""
	case "otpauth", "totp":
		return e.TOTP, e.TOTP != ""
	case "notes":
		return e.Notes, e.Notes != ""
	}
	return e.Field(name)
}
