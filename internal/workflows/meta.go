package workflows

import (
	"bytes"
	"context"
	"encoding/base64"

	"github.com/tobagin/secrets/internal/app"
	kerrors "github.com/tobagin/secrets/internal/errors"
)

// FolderMetaOptions configures SetFolderMeta. Empty fields are unchanged.
type FolderMetaOptions struct {
	Path  string
	Color string
	Icon  string
}

// SetFolderMeta changes a folder's colour or icon.
//
// Returns ErrFolderNotFound if the folder does not exist.
// Returns ErrInvalidColor if Color is not #rrggbb.
func SetFolderMeta(ctx context.Context, a *app.Context, opts FolderMetaOptions) error {
	if !a.Store.FolderExists(opts.Path) {
		return kerrors.ErrFolderNotFound
	}
	return a.Metadata.SetFolderMetadata(opts.Path, opts.Color, opts.Icon)
}

// PasswordMetaOptions configures SetPasswordMeta. Empty fields are
// unchanged.
type PasswordMetaOptions struct {
	Path  string
	Color string
	Icon  string
}

// SetPasswordMeta changes an entry's colour or icon.
//
// Returns ErrEntryNotFound if the entry does not exist.
// Returns ErrInvalidColor if Color is not #rrggbb.
func SetPasswordMeta(ctx context.Context, a *app.Context, opts PasswordMetaOptions) error {
	if !a.Store.Exists(opts.Path) {
		return kerrors.ErrEntryNotFound
	}
	return a.Metadata.SetPasswordMetadata(opts.Path, opts.Color, opts.Icon)
}

// FaviconOptions configures SetFavicon.
type FaviconOptions struct {
	Path string

	// Image is raw PNG data. Nil clears the favicon.
	Image []byte
}

// SetFavicon stores an already-downloaded favicon for an entry.
//
// Returns ErrEntryNotFound if the entry does not exist.
// Returns ErrInvalidFavicon if Image is not a PNG.
func SetFavicon(ctx context.Context, a *app.Context, opts FaviconOptions) error {
	if !a.Store.Exists(opts.Path) {
		return kerrors.ErrEntryNotFound
	}
	if opts.Image == nil {
		return a.Metadata.SetPasswordFavicon(opts.Path, "")
	}
	if !isPNG(opts.Image) {
		return kerrors.ErrInvalidFavicon
	}
	return a.Metadata.SetPasswordFavicon(opts.Path, base64.StdEncoding.EncodeToString(opts.Image))
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngSignature)
}
