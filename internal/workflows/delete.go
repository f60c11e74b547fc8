package workflows

import (
	"context"
	"fmt"

	"github.com/tobagin/secrets/internal/app"
	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/store"
)

// DeleteOptions configures the delete workflow.
type DeleteOptions struct {
	Path string

	// Recursive deletes a folder and everything in it.
	Recursive bool
}

// DeleteResult contains the outcome of a delete operation.
type DeleteResult struct {
	Path   string
	Folder bool
}

// Delete removes an entry, or with Recursive a folder, together with its
// metadata and detection records.
//
// Returns ErrInvalidPath for a malformed path (without running pass).
// Returns ErrEntryNotFound if nothing is there, or if Path is a folder
// and Recursive is not set.
func Delete(ctx context.Context, a *app.Context, opts DeleteOptions) (*DeleteResult, error) {
	if err := store.ValidatePath(opts.Path); err != nil {
		recordOp(a, "delete", opts.Path, err)
		return nil, err
	}

	syncBeforeChange(ctx, a)

	var err error
	folder := false
	switch {
	case a.Store.Exists(opts.Path):
		err = a.Store.DeletePassword(ctx, opts.Path)
	case a.Store.FolderExists(opts.Path) && opts.Recursive:
		folder = true
		err = a.Store.DeleteFolder(ctx, opts.Path)
	case a.Store.FolderExists(opts.Path):
		err = fmt.Errorf("%w: %s is a folder, delete it recursively", kerrors.ErrEntryNotFound, opts.Path)
	default:
		err = fmt.Errorf("%w: %s", kerrors.ErrEntryNotFound, opts.Path)
	}
	recordOp(a, "delete", opts.Path, err)
	if err != nil {
		return nil, err
	}

	var mErr error
	if folder {
		mErr = a.Metadata.RemoveFolder(opts.Path)
		a.Detect.RemoveFolder(opts.Path)
	} else {
		mErr = a.Metadata.RemovePassword(opts.Path)
		a.Detect.Remove(opts.Path)
	}
	if mErr != nil {
		a.Logger.Warnf("Could not update metadata: %v", mErr)
	}

	syncAfterChange(ctx, a)
	return &DeleteResult{Path: opts.Path, Folder: folder}, nil
}
