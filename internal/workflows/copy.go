package workflows

import (
	"context"
	"time"

	"github.com/tobagin/secrets/internal/app"
)

// CopyOptions configures the copy workflow.
type CopyOptions struct {
	Path string

	// ClearAfter overrides security.clipboard_timeout. Negative disables
	// clearing.
	ClearAfter time.Duration
}

// CopyResult contains the outcome of a copy operation.
type CopyResult struct {
	Path string

	// ClearAfter is how long the password should stay on the clipboard;
	// zero means it is left there.
	ClearAfter time.Duration

	copied string
}

// Copy places the entry's password (its first line) on the clipboard.
//
// Returns ErrInvalidPath for a malformed path (without running pass).
// Returns ErrEmptyPassword if the first line is empty.
// Returns ErrClipboardUnavailable if no clipboard tool works.
func Copy(ctx context.Context, a *app.Context, opts CopyOptions) (*CopyResult, error) {
	copied, err := a.Store.CopyPassword(ctx, opts.Path)
	recordOp(a, "copy", opts.Path, err)
	if err != nil {
		return nil, err
	}

	clearAfter := opts.ClearAfter
	switch {
	case clearAfter < 0:
		clearAfter = 0
	case clearAfter == 0:
		clearAfter = a.Config.Security.ClipboardTimeoutDuration()
	}

	a.Logger.Infof("Copied password of %s to clipboard", opts.Path)
	return &CopyResult{Path: opts.Path, ClearAfter: clearAfter, copied: copied}, nil
}

// ClearClipboard waits for r.ClearAfter and then empties the clipboard if
// it still holds the copied password. It returns early when ctx ends.
func ClearClipboard(ctx context.Context, a *app.Context, r *CopyResult) error {
	if r == nil || r.ClearAfter <= 0 {
		return nil
	}

	t := time.NewTimer(r.ClearAfter)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
	return a.Store.ClearClipboard(r.copied)
}
