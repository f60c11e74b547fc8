package workflows

import (
	"context"

	"github.com/tobagin/secrets/internal/app"
	"github.com/tobagin/secrets/internal/store"
)

// recordOp writes an audit entry for op on path.
func recordOp(a *app.Context, op, path string, err error) {
	entry := a.Audit.Entry(op)
	entry.Path = path
	a.Audit.Record(entry, err)
}

// syncBeforeChange pulls the store when git.auto_pull is on so the change
// is made on top of the remote state. Failures are logged.
func syncBeforeChange(ctx context.Context, a *app.Context) {
	if !a.Config.Git.AutoPull || !a.Store.HasGit() {
		return
	}
	if _, err := a.Store.Git(ctx, store.GitPull); err != nil {
		a.Logger.Warnf("Automatic git pull failed: %v", err)
		return
	}
	a.Logger.Debugf("Pulled changes from git remote")
}

// syncAfterChange pushes the store when git.auto_push is on. Failures are
// logged; the local change already succeeded.
func syncAfterChange(ctx context.Context, a *app.Context) {
	if !a.Config.Git.AutoPush || !a.Store.HasGit() {
		return
	}
	if _, err := a.Store.Git(ctx, store.GitPush); err != nil {
		a.Logger.Warnf("Automatic git push failed: %v", err)
		return
	}
	a.Logger.Infof("Pushed changes to git remote")
}

// refreshDetection updates the detection record for path from content.
func refreshDetection(a *app.Context, path, content string) {
	if _, err := a.Detect.Update(path, content); err != nil {
		a.Logger.Debugf("Could not update detection record for %s: %v", path, err)
	}
}
