package gpg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	kerrors "github.com/tobagin/secrets/internal/errors"
)

// Command describes one subprocess invocation.
type Command struct {
	Name    string
	Args    []string
	Stdin   []byte
	Timeout time.Duration
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + c.Args[0]
}

type Output struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// ExecRunner runs commands with os/exec. Env is the full environment given
// to every child; nil inherits the parent's.
type ExecRunner struct {
	Env []string
}

func (r ExecRunner) Run(ctx context.Context, c Command) (Output, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Env = r.Env
	if c.Stdin != nil {
		cmd.Stdin = bytes.NewReader(c.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return out, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return out, missingTool(c.Name)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, fmt.Errorf("%w: %s after %s", kerrors.ErrCommandTimeout, c, c.Timeout)
	}
	if ctx.Err() != nil {
		return out, ctx.Err()
	}

	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return out, fmt.Errorf("%w: %s: %s", kerrors.ErrCommandFailed, c, msg)
}

func missingTool(name string) error {
	switch name {
	case "pass":
		return kerrors.ErrPassNotFound
	case "gpg", "gpg2":
		return kerrors.ErrGPGNotFound
	default:
		return fmt.Errorf("%s: %w", name, exec.ErrNotFound)
	}
}

// Available reports whether name can be found on PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
