package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/gpg"
	logger "github.com/tobagin/secrets/internal/logging"
	"github.com/tobagin/secrets/internal/utils"
)

const (
	showTimeout  = 30 * time.Second
	writeTimeout = 30 * time.Second
	initTimeout  = 30 * time.Second
	grepTimeout  = 120 * time.Second
	gitTimeout   = 60 * time.Second
)

// Options configures New. Runner is required; the rest have defaults.
type Options struct {
	Dir       string
	Runner    gpg.Runner
	Cache     CacheOptions
	Bulk      BulkOptions
	Clipboard Clipboard
	Logger    logger.Logger
}

// Store is a pass password store rooted at a directory.
type Store struct {
	dir    string
	runner gpg.Runner
	gpg    *gpg.Client
	cache  *ContentCache
	clip   Clipboard
	bulk   BulkOptions
	log    logger.Logger
}

func New(opts Options) *Store {
	clip := opts.Clipboard
	if clip == nil {
		clip = SystemClipboard{}
	}
	return &Store{
		dir:    opts.Dir,
		runner: opts.Runner,
		gpg:    gpg.NewClient(opts.Runner),
		cache:  NewContentCache(opts.Dir, opts.Cache),
		clip:   clip,
		bulk:   opts.Bulk.withDefaults(),
		log:    opts.Logger,
	}
}

// Dir returns the store root.
func (s *Store) Dir() string {
	return s.dir
}

// IsInitialized reports whether the store root has a .gpg-id file.
func (s *Store) IsInitialized() bool {
	return utils.FileExists(filepath.Join(s.dir, ".gpg-id"))
}

// GPGIDs returns the recipients listed in the root .gpg-id file.
func (s *Store) GPGIDs() ([]string, error) {
	f, err := os.Open(filepath.Join(s.dir, ".gpg-id"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kerrors.ErrStoreNotInitialized
		}
		return nil, fmt.Errorf("failed to read .gpg-id: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			ids = append(ids, line)
		}
	}
	return ids, scanner.Err()
}

// HasGit reports whether the store is a git repository.
func (s *Store) HasGit() bool {
	return utils.DirExists(filepath.Join(s.dir, ".git"))
}

// Exists reports whether an entry exists at path.
func (s *Store) Exists(path string) bool {
	return ValidatePath(path) == nil && utils.FileExists(entryFile(s.dir, path))
}

// FolderExists reports whether a folder exists at path.
func (s *Store) FolderExists(path string) bool {
	return ValidatePath(path) == nil && utils.DirExists(folderDir(s.dir, path))
}

// EntryFile returns the .gpg file backing path.
func (s *Store) EntryFile(path string) string {
	return entryFile(s.dir, path)
}

// ListPasswords returns every entry path in the store, sorted. Hidden
// files and directories (.git, .secrets-cache, ...) are skipped.
func (s *Store) ListPasswords() ([]string, error) {
	var paths []string
	err := s.walk(func(rel string, d fs.DirEntry) {
		if !d.IsDir() && strings.HasSuffix(rel, ".gpg") {
			paths = append(paths, strings.TrimSuffix(rel, ".gpg"))
		}
	})
	sort.Strings(paths)
	return paths, err
}

// ListFolders returns every folder path in the store, sorted.
func (s *Store) ListFolders() ([]string, error) {
	var folders []string
	err := s.walk(func(rel string, d fs.DirEntry) {
		if d.IsDir() {
			folders = append(folders, rel)
		}
	})
	sort.Strings(folders)
	return folders, err
}

func (s *Store) walk(visit func(rel string, d fs.DirEntry)) error {
	if !utils.DirExists(s.dir) {
		return nil
	}
	return filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == s.dir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		visit(filepath.ToSlash(rel), d)
		return nil
	})
}

// Init initializes the store for the given GPG recipients.
func (s *Store) Init(ctx context.Context, gpgIDs ...string) error {
	if len(gpgIDs) == 0 {
		return fmt.Errorf("at least one GPG ID is required")
	}
	for _, id := range gpgIDs {
		if strings.TrimSpace(id) == "" || strings.HasPrefix(id, "-") {
			return fmt.Errorf("invalid GPG ID %q", id)
		}
	}

	args := append([]string{"init", "--"}, gpgIDs...)
	if _, err := s.pass(ctx, initTimeout, nil, args...); err != nil {
		return err
	}
	s.cache.InvalidateAll()
	return nil
}

// GetContent returns the decrypted content of path, from cache when valid.
func (s *Store) GetContent(ctx context.Context, path string) (string, error) {
	return s.getContent(ctx, path, showTimeout)
}

func (s *Store) getContent(ctx context.Context, path string, timeout time.Duration) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}
	if content, ok := s.cache.Get(path); ok {
		s.log.Debugf("Cache hit for %s", path)
		return content, nil
	}
	if !utils.FileExists(entryFile(s.dir, path)) {
		return "", fmt.Errorf("%w: %s", kerrors.ErrEntryNotFound, path)
	}

	s.log.Debugf("Decrypting %s", path)
	out, err := s.pass(ctx, timeout, nil, "show", "--", path)
	if err != nil {
		if errors.Is(err, kerrors.ErrCommandFailed) {
			return "", fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
		}
		return "", err
	}

	content := string(out.Stdout)
	s.cache.Put(path, content)
	return content, nil
}

// InsertPassword writes content to path. An existing entry is only
// replaced when force is set.
func (s *Store) InsertPassword(ctx context.Context, path, content string, force bool) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if !force && utils.FileExists(entryFile(s.dir, path)) {
		return fmt.Errorf("%w: %s", kerrors.ErrEntryExists, path)
	}

	args := []string{"insert", "--multiline"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, "--", path)

	_, err := s.pass(ctx, writeTimeout, []byte(content), args...)
	s.cache.Invalidate(path)
	return err
}

// DeletePassword removes the entry at path.
func (s *Store) DeletePassword(ctx context.Context, path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if !utils.FileExists(entryFile(s.dir, path)) {
		return fmt.Errorf("%w: %s", kerrors.ErrEntryNotFound, path)
	}

	_, err := s.pass(ctx, writeTimeout, nil, "rm", "--force", "--", path)
	s.cache.Invalidate(path)
	return err
}

// DeleteFolder removes a folder and everything below it.
func (s *Store) DeleteFolder(ctx context.Context, path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if !utils.DirExists(folderDir(s.dir, path)) {
		return fmt.Errorf("%w: %s", kerrors.ErrFolderNotFound, path)
	}

	_, err := s.pass(ctx, writeTimeout, nil, "rm", "--recursive", "--force", "--", path)
	s.cache.InvalidateFolder(path)
	return err
}

// MovePassword renames an entry or folder. The destination must not exist.
func (s *Store) MovePassword(ctx context.Context, oldPath, newPath string) error {
	if err := ValidatePath(oldPath); err != nil {
		return err
	}
	if err := ValidatePath(newPath); err != nil {
		return err
	}

	isEntry := utils.FileExists(entryFile(s.dir, oldPath))
	isFolder := utils.DirExists(folderDir(s.dir, oldPath))
	if !isEntry && !isFolder {
		return fmt.Errorf("%w: %s", kerrors.ErrEntryNotFound, oldPath)
	}
	if utils.FileExists(entryFile(s.dir, newPath)) || utils.DirExists(folderDir(s.dir, newPath)) {
		return fmt.Errorf("%w: %s", kerrors.ErrEntryExists, newPath)
	}

	_, err := s.pass(ctx, writeTimeout, nil, "mv", "--force", "--", oldPath, newPath)
	s.cache.Invalidate(oldPath)
	s.cache.Invalidate(newPath)
	if isFolder {
		s.cache.InvalidateFolder(oldPath)
	}
	return err
}

// CopyPassword decrypts path and places its first line on the clipboard.
// It returns the copied password so callers can clear it later.
func (s *Store) CopyPassword(ctx context.Context, path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	content, err := s.GetContent(ctx, path)
	if err != nil {
		return "", err
	}

	password := utils.FirstLine(content)
	if password == "" {
		return "", fmt.Errorf("%w: %s", kerrors.ErrEmptyPassword, path)
	}
	if err := s.clip.WriteAll(password); err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrClipboardUnavailable, err)
	}
	return password, nil
}

// ClearClipboard empties the clipboard if it still holds expected.
func (s *Store) ClearClipboard(expected string) error {
	current, err := s.clip.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrClipboardUnavailable, err)
	}
	if current != expected {
		return nil
	}
	if err := s.clip.WriteAll(""); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrClipboardUnavailable, err)
	}
	return nil
}

// GrepMatch is one entry whose decrypted content matched a pass grep search.
type GrepMatch struct {
	Path  string
	Lines []string
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Grep searches decrypted content with pass grep.
func (s *Store) Grep(ctx context.Context, pattern string, ignoreCase bool) ([]GrepMatch, error) {
	if pattern == "" {
		return nil, nil
	}
	known, err := s.ListPasswords()
	if err != nil {
		return nil, err
	}

	args := []string{"grep"}
	if ignoreCase {
		args = append(args, "-i")
	}
	args = append(args, "--", pattern)

	out, err := s.pass(ctx, grepTimeout, nil, args...)
	if err != nil {
		// grep exits 1 when nothing matched.
		if errors.Is(err, kerrors.ErrCommandFailed) && len(strings.TrimSpace(string(out.Stderr))) == 0 {
			return nil, nil
		}
		return nil, err
	}
	return parseGrepOutput(string(out.Stdout), known), nil
}

// parseGrepOutput splits pass grep output into per-entry matches. Header
// lines are "<path>:" once colour codes are removed; they are recognised
// by checking against the known entry paths.
func parseGrepOutput(out string, known []string) []GrepMatch {
	entries := make(map[string]bool, len(known))
	for _, p := range known {
		entries[p] = true
	}

	var matches []GrepMatch
	for _, raw := range strings.Split(out, "\n") {
		line := ansiEscape.ReplaceAllString(raw, "")
		if strings.HasSuffix(line, ":") && entries[strings.TrimSuffix(line, ":")] {
			matches = append(matches, GrepMatch{Path: strings.TrimSuffix(line, ":")})
			continue
		}
		if len(matches) > 0 && strings.TrimSpace(line) != "" {
			last := &matches[len(matches)-1]
			last.Lines = append(last.Lines, line)
		}
	}
	return matches
}

// GitOperation is a pass git subcommand the application may run.
type GitOperation string

const (
	GitPull   GitOperation = "pull"
	GitPush   GitOperation = "push"
	GitStatus GitOperation = "status"
	GitLog    GitOperation = "log"
)

// Git runs pass git <op> and returns its combined output.
func (s *Store) Git(ctx context.Context, op GitOperation) (string, error) {
	args := []string{"git"}
	switch op {
	case GitPull:
		args = append(args, "pull", "--rebase")
	case GitPush:
		args = append(args, "push")
	case GitStatus:
		args = append(args, "status", "--short", "--branch")
	case GitLog:
		args = append(args, "log", "--oneline", "-n", "20")
	default:
		return "", fmt.Errorf("%w: %s", kerrors.ErrUnsupportedGitOperation, op)
	}
	if !s.HasGit() {
		return "", kerrors.ErrGitNotInitialized
	}

	out, err := s.pass(ctx, gitTimeout, nil, args...)
	text := strings.TrimSpace(string(out.Stdout) + string(out.Stderr))
	if err != nil {
		return text, err
	}
	if op == GitPull {
		s.cache.InvalidateAll()
	}
	return text, nil
}

func (s *Store) pass(ctx context.Context, timeout time.Duration, stdin []byte, args ...string) (gpg.Output, error) {
	return s.runner.Run(ctx, gpg.Command{
		Name:    "pass",
		Args:    args,
		Stdin:   stdin,
		Timeout: timeout,
	})
}
