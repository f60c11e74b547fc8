package gpg

import (
	"context"
	"sync"
)

// recordingRunner returns canned output and remembers every command.
type recordingRunner struct {
	mu       sync.Mutex
	commands []Command
	out      Output
	err      error
}

func (r *recordingRunner) Run(ctx context.Context, c Command) (Output, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, c)
	return r.out, r.err
}
