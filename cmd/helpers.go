package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"

	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/ui"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. The returned function must be deferred; it stops
// the spinner and prints FinalMSG, which needs no trailing newline.
func startSpinner(message string) (*spinner.Spinner, func()) {
	quiet := !verbose && !debug
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	_ = s.Color("cyan")

	if quiet {
		s.Start()
		log.SetOutput(io.Discard)
	} else if App != nil {
		App.Logger.Infof("%s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Stop would print it to the spinner writer otherwise.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// withSpinner runs fn behind a spinner. A failure replaces the spinner line
// and is returned already shown.
func withSpinner(message string, fn func() error) error {
	s, cleanup := startSpinner(message)
	defer cleanup()
	if err := fn(); err != nil {
		s.FinalMSG = failure(err)
		return shown(err)
	}
	return nil
}

// shownError marks an error whose message a command already printed.
type shownError struct{ error }

func (e shownError) Unwrap() error { return e.error }

func shown(err error) error {
	if err == nil {
		return nil
	}
	return shownError{err}
}

// failure renders err as the one-line message shown after ✗.
func failure(err error) string {
	return ui.Error.Sprint("✗") + " " + kerrors.UserMessage(err)
}

func success(format string, args ...any) string {
	return ui.Success.Sprint("✓") + " " + fmt.Sprintf(format, args...)
}

// commandContext returns a context cancelled on SIGINT or SIGTERM so an
// interrupted command kills its pass subprocesses.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// confirm asks a yes/no question on stdin. Anything but y or yes is no.
func confirm(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	response, err := reader.ReadString('\n')
	if err != nil {
		App.Logger.Errorf("Failed to read response: %v", err)
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
