package workflows

import (
	"context"

	"github.com/tobagin/secrets/internal/app"
)

// MoveOptions configures the move workflow.
type MoveOptions struct {
	From string
	To   string
}

// MoveResult contains the outcome of a move operation.
type MoveResult struct {
	From   string
	To     string
	Folder bool
}

// Move renames an entry or folder and carries its metadata and detection
// records along.
//
// Returns ErrInvalidPath if either path is malformed (without running pass).
// Returns ErrEntryNotFound if From does not exist.
// Returns ErrEntryExists if To is already taken.
func Move(ctx context.Context, a *app.Context, opts MoveOptions) (*MoveResult, error) {
	syncBeforeChange(ctx, a)
	folder := !a.Store.Exists(opts.From) && a.Store.FolderExists(opts.From)

	err := a.Store.MovePassword(ctx, opts.From, opts.To)

	entry := a.Audit.Entry("move")
	entry.Path = opts.From
	entry.Target = opts.To
	a.Audit.Record(entry, err)
	if err != nil {
		return nil, err
	}

	var mErr error
	if folder {
		mErr = a.Metadata.RenameFolder(opts.From, opts.To)
		a.Detect.RenameFolder(opts.From, opts.To)
	} else {
		mErr = a.Metadata.RenamePassword(opts.From, opts.To)
		a.Detect.Rename(opts.From, opts.To)
	}
	if mErr != nil {
		a.Logger.Warnf("Could not update metadata: %v", mErr)
	}

	syncAfterChange(ctx, a)
	return &MoveResult{From: opts.From, To: opts.To, Folder: folder}, nil
}
