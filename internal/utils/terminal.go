package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/term"
)

// ReadSecret prompts the user for a secret without echoing input.
// Returns an error if stdin is not a terminal.
func ReadSecret(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read password: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return secret, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// TTYName returns the device path of the terminal attached to stdin, or an
// empty string when stdin is not a terminal or the platform cannot tell.
func TTYName() string {
	if runtime.GOOS == "windows" || !IsTerminal() {
		return ""
	}
	for _, link := range []string{"/proc/self/fd/0", "/dev/fd/0"} {
		target, err := os.Readlink(link)
		if err == nil && filepath.IsAbs(target) {
			return target
		}
	}
	return ""
}
