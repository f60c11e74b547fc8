package workflows

import (
	"context"
	"strings"

	"github.com/tobagin/secrets/internal/app"
	"github.com/tobagin/secrets/internal/detect"
	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/metadata"
	"github.com/tobagin/secrets/internal/store"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	// Folder restricts the listing to entries below this folder.
	Folder string
}

// PasswordItem is one entry in a listing.
type PasswordItem struct {
	Path string
	Meta metadata.PasswordMeta

	// Detection is set when the detection cache has a current record.
	Detection *detect.Record
}

// FolderItem is one folder in a listing.
type FolderItem struct {
	Path string
	Meta metadata.FolderMeta
}

// ListResult contains the outcome of a list operation.
type ListResult struct {
	Folders   []FolderItem
	Passwords []PasswordItem
}

// List returns the folders and entries of the store with their metadata.
// No entry is decrypted.
//
// Returns ErrStoreNotInitialized if the store has no .gpg-id file.
func List(ctx context.Context, a *app.Context, opts ListOptions) (*ListResult, error) {
	if !a.Store.IsInitialized() {
		return nil, kerrors.ErrStoreNotInitialized
	}

	prefix := ""
	if opts.Folder != "" {
		if err := store.ValidatePath(opts.Folder); err != nil {
			return nil, err
		}
		if !a.Store.FolderExists(opts.Folder) {
			return nil, kerrors.ErrFolderNotFound
		}
		prefix = opts.Folder + "/"
	}

	folders, err := a.Store.ListFolders()
	if err != nil {
		return nil, err
	}
	passwords, err := a.Store.ListPasswords()
	if err != nil {
		return nil, err
	}

	result := &ListResult{}
	for _, f := range folders {
		if strings.HasPrefix(f, prefix) {
			result.Folders = append(result.Folders, FolderItem{Path: f, Meta: a.Metadata.GetFolderMetadata(f)})
		}
	}
	for _, p := range passwords {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		item := PasswordItem{Path: p, Meta: a.Metadata.GetPasswordMetadata(p)}
		if rec, ok := a.Detect.Lookup(p); ok {
			item.Detection = &rec
		}
		result.Passwords = append(result.Passwords, item)
	}
	return result, nil
}
