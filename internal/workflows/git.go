package workflows

import (
	"context"

	"github.com/tobagin/secrets/internal/app"
	"github.com/tobagin/secrets/internal/store"
)

// GitOptions configures the git workflow.
type GitOptions struct {
	Operation store.GitOperation
}

// GitResult contains the output of pass git.
type GitResult struct {
	Operation store.GitOperation
	Output    string
}

// Git runs one of the supported pass git operations.
//
// Returns ErrUnsupportedGitOperation for anything but pull, push, status
// and log.
// Returns ErrGitNotInitialized if the store is not a git repository.
func Git(ctx context.Context, a *app.Context, opts GitOptions) (*GitResult, error) {
	out, err := a.Store.Git(ctx, opts.Operation)
	if opts.Operation == store.GitPull || opts.Operation == store.GitPush {
		recordOp(a, "git-"+string(opts.Operation), "", err)
	}
	if err != nil {
		return nil, err
	}
	return &GitResult{Operation: opts.Operation, Output: out}, nil
}
