package workflows

import (
	"context"
	"sort"
	"strings"

	"github.com/tobagin/secrets/internal/app"
	kerrors "github.com/tobagin/secrets/internal/errors"
)

// WarmOptions configures the warm workflow.
type WarmOptions struct {
	// Paths to decrypt. Empty means every entry (below Folder, if set).
	Paths  []string
	Folder string

	// Workers caps the parallel decryptions; the store's limit still
	// applies. Zero uses the store's limit.
	Workers int
}

// WarmFailure is one entry that could not be decrypted.
type WarmFailure struct {
	Path  string
	Error string
}

// WarmResult contains the outcome of a bulk decryption.
type WarmResult struct {
	Total     int
	Succeeded int
	Failed    []WarmFailure

	// WithTOTP and WithURL count decrypted entries carrying those fields.
	WithTOTP int
	WithURL  int
}

// Warm bulk-decrypts entries into the content cache and refreshes their
// detection records. Per-entry failures are reported, not returned.
//
// Returns ErrStoreNotInitialized if the store has no .gpg-id file.
func Warm(ctx context.Context, a *app.Context, opts WarmOptions) (*WarmResult, error) {
	if !a.Store.IsInitialized() {
		return nil, kerrors.ErrStoreNotInitialized
	}

	paths := opts.Paths
	if len(paths) == 0 {
		all, err := a.Store.ListPasswords()
		if err != nil {
			return nil, err
		}
		if opts.Folder == "" {
			if n := a.Detect.Prune(all); n > 0 {
				a.Logger.Debugf("Dropped %d detection records of deleted entries", n)
			}
		}
		for _, p := range all {
			if opts.Folder == "" || strings.HasPrefix(p, opts.Folder+"/") {
				paths = append(paths, p)
			}
		}
	}

	results := a.Store.GetBulkContents(ctx, paths, opts.Workers)

	result := &WarmResult{Total: len(results)}
	for path, r := range results {
		if !r.OK {
			result.Failed = append(result.Failed, WarmFailure{Path: path, Error: r.Err})
			continue
		}
		result.Succeeded++
		rec, err := a.Detect.Update(path, r.Content)
		if err != nil {
			continue
		}
		if rec.HasTOTP {
			result.WithTOTP++
		}
		if rec.HasURL {
			result.WithURL++
		}
	}
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].Path < result.Failed[j].Path
	})

	a.Logger.Debugf("Detection cache holds %d records", a.Detect.Len())
	if err := a.Detect.Save(); err != nil {
		a.Logger.Warnf("Could not save detection cache: %v", err)
	}

	entry := a.Audit.Entry("warm")
	entry.Path = opts.Folder
	entry.Count = result.Succeeded
	a.Audit.Record(entry, nil)

	return result, nil
}
