package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var otpCmd = &cobra.Command{
	Use:   "otp <path>",
	Short: "Generate the current TOTP code of an entry",
	Long: `Decrypts an entry, reads its otpauth:// URI and prints the current
one-time code together with the seconds left until it changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runOTP,
}

func runOTP(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	var result *workflows.OTPResult
	err := withSpinner("Decrypting "+args[0]+"...", func() (err error) {
		result, err = workflows.OTP(ctx, App, workflows.OTPOptions{Path: args[0]})
		return err
	})
	if err != nil {
		return err
	}

	code := result.Code
	label := code.Account
	if code.Issuer != "" {
		label = code.Issuer + ": " + label
	}
	fmt.Printf("%s  %s\n", ui.OTP.Sprint(code.Code), ui.Muted.Sprintf("%ds left", int(code.Remaining/time.Second)))
	if label != "" {
		fmt.Println(ui.Muted.Sprint(label))
	}
	return nil
}
