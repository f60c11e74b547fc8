package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/utils"
	"github.com/tobagin/secrets/internal/workflows"
)

var (
	insertForce    bool
	insertUsername string
	insertURL      string
)

func init() {
	insertCmd.Flags().BoolVarP(&insertForce, "force", "f", false, "replace an existing entry")
	insertCmd.Flags().StringVar(&insertUsername, "username", "", "add a username field")
	insertCmd.Flags().StringVar(&insertURL, "url", "", "add a url field")
}

var insertCmd = &cobra.Command{
	Use:     "insert <path>",
	Aliases: []string{"add", "edit"},
	Short:   "Create or replace a password entry",
	Long: `Encrypts a new entry into the store.

On a terminal the password is prompted for twice without echo. When content
is piped in, it is stored as is: the first line is the password and the
remaining lines are fields and notes.

Examples:
  secrets insert email/work --username alice@example.com
  printf 'hunter2\nurl: https://example.com\n' | secrets insert web/example
  secrets insert email/work --force`,
	Args: cobra.ExactArgs(1),
	RunE: runInsert,
}

func runInsert(cmd *cobra.Command, args []string) error {
	content, err := readEntryContent()
	if err != nil {
		fmt.Println(failure(err))
		return shown(err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	var result *workflows.InsertResult
	err = withSpinner("Encrypting "+args[0]+"...", func() (err error) {
		result, err = workflows.Insert(ctx, App, workflows.InsertOptions{
			Path:    args[0],
			Content: content,
			Force:   insertForce,
		})
		return err
	})
	if err != nil {
		return err
	}

	if result.Replaced {
		fmt.Println(success("Replaced %s", ui.Path.Sprint(result.Path)))
	} else {
		fmt.Println(success("Created %s", ui.Path.Sprint(result.Path)))
	}
	return nil
}

// readEntryContent builds the entry from piped stdin or from a prompt.
func readEntryContent() (string, error) {
	var b strings.Builder
	if utils.IsTerminal() {
		password, err := utils.ReadSecret("Password: ")
		if err != nil {
			return "", err
		}
		again, err := utils.ReadSecret("Retype password: ")
		if err != nil {
			return "", err
		}
		if string(password) != string(again) {
			return "", fmt.Errorf("passwords do not match")
		}
		if len(password) == 0 {
			return "", kerrors.ErrEmptyPassword
		}
		b.Write(password)
		b.WriteString("\n")
	} else {
		data, err := utils.ReadStdin()
		if err != nil {
			return "", err
		}
		b.WriteString(strings.TrimRight(string(data), "\n"))
		b.WriteString("\n")
	}

	if insertUsername != "" {
		b.WriteString("username: " + insertUsername + "\n")
	}
	if insertURL != "" {
		b.WriteString("url: " + insertURL + "\n")
	}
	return b.String(), nil
}
