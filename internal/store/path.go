package store

import (
	"fmt"
	"path/filepath"
	"strings"

	kerrors "github.com/tobagin/secrets/internal/errors"
)

// ValidatePath checks that path is a relative, slash-separated entry path
// with no leading or trailing slash, no empty, "." or ".." segments, no
// control characters, and no leading dash that pass could read as a flag.
func ValidatePath(path string) error {
	if path == "" || strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", kerrors.ErrInvalidPath)
	}
	if strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidPath, path)
	}
	if strings.HasPrefix(path, "-") || strings.Contains(path, "\\") {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidPath, path)
	}
	for _, r := range path {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: control character in %q", kerrors.ErrInvalidPath, path)
		}
	}
	for _, segment := range strings.Split(path, "/") {
		switch segment {
		case "", ".", "..":
			return fmt.Errorf("%w: %q", kerrors.ErrInvalidPath, path)
		}
	}
	return nil
}

// entryFile returns the .gpg file backing an entry path.
func entryFile(root, path string) string {
	return filepath.Join(root, filepath.FromSlash(path)+".gpg")
}

// folderDir returns the directory backing a folder path.
func folderDir(root, path string) string {
	return filepath.Join(root, filepath.FromSlash(path))
}

// Parent returns the folder containing path, or "" for top-level entries.
func Parent(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return ""
}

// Base returns the last segment of path.
func Base(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
