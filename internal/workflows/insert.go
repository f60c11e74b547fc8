package workflows

import (
	"context"
	"strings"

	"github.com/tobagin/secrets/internal/app"
	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/utils"
)

// InsertOptions configures the insert workflow.
type InsertOptions struct {
	Path    string
	Content string

	// Force replaces an existing entry.
	Force bool
}

// InsertResult contains the outcome of an insert operation.
type InsertResult struct {
	Path     string
	Replaced bool
}

// Insert creates or, with Force, replaces an entry.
//
// Returns ErrInvalidPath for a malformed path (without running pass).
// Returns ErrEmptyPassword if the content has no password line.
// Returns ErrEntryExists if the entry exists and Force is not set.
func Insert(ctx context.Context, a *app.Context, opts InsertOptions) (*InsertResult, error) {
	content := strings.TrimRight(opts.Content, "\n") + "\n"
	if utils.FirstLine(content) == "" {
		err := kerrors.ErrEmptyPassword
		recordOp(a, "insert", opts.Path, err)
		return nil, err
	}

	syncBeforeChange(ctx, a)
	replaced := a.Store.Exists(opts.Path)
	err := a.Store.InsertPassword(ctx, opts.Path, content, opts.Force)
	recordOp(a, "insert", opts.Path, err)
	if err != nil {
		return nil, err
	}

	refreshDetection(a, opts.Path, content)
	syncAfterChange(ctx, a)
	return &InsertResult{Path: opts.Path, Replaced: replaced}, nil
}
