package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/tobagin/secrets/internal/app"
	kerrors "github.com/tobagin/secrets/internal/errors"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// GPGIDs are the recipients. Empty picks the first usable secret key.
	GPGIDs []string
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	StoreDir string
	GPGIDs   []string

	// Reinitialized is true when the store already had a .gpg-id and its
	// entries were re-encrypted for the new recipients.
	Reinitialized bool
}

// Init initializes (or re-initializes) the password store.
//
// Returns ErrNoSecretKey if no recipient was given and gpg has no usable
// secret key.
func Init(ctx context.Context, a *app.Context, opts InitOptions) (*InitResult, error) {
	ids := opts.GPGIDs
	if len(ids) == 0 {
		keys, err := a.GPG.ListSecretKeys(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing secret keys: %w", err)
		}
		for _, k := range keys {
			if k.Usable() {
				ids = []string{k.Fingerprint}
				break
			}
		}
		if len(ids) == 0 {
			return nil, kerrors.ErrNoSecretKey
		}
	}

	reinit := a.Store.IsInitialized()
	err := a.Store.Init(ctx, ids...)

	entry := a.Audit.Entry("init")
	entry.Target = strings.Join(ids, ",")
	a.Audit.Record(entry, err)
	if err != nil {
		return nil, err
	}

	return &InitResult{StoreDir: a.Store.Dir(), GPGIDs: ids, Reinitialized: reinit}, nil
}
