package metadata

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	kerrors "github.com/tobagin/secrets/internal/errors"
	logger "github.com/tobagin/secrets/internal/logging"
	"github.com/tobagin/secrets/internal/store"
	"github.com/tobagin/secrets/internal/utils"
)

// FileName is the sidecar's name inside the store root.
const FileName = ".secrets_metadata.json"

const (
	DefaultFolderColor   = "#3584e4"
	DefaultFolderIcon    = "folder-symbolic"
	DefaultPasswordColor = "#9141ac"
	DefaultPasswordIcon  = "dialog-password-symbolic"
)

type FolderMeta struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type PasswordMeta struct {
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	FaviconData *string `json:"favicon_data"`
}

type document struct {
	Folders   map[string]FolderMeta   `json:"folders"`
	Passwords map[string]PasswordMeta `json:"passwords"`
}

func emptyDocument() document {
	return document{
		Folders:   map[string]FolderMeta{},
		Passwords: map[string]PasswordMeta{},
	}
}

// Store is the in-memory copy of the sidecar. It is safe for concurrent
// use.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
	log  logger.Logger
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Open loads the sidecar for the store rooted at storeDir.
func Open(storeDir string, log logger.Logger) *Store {
	s := &Store{
		path: filepath.Join(storeDir, FileName),
		doc:  emptyDocument(),
		log:  log,
	}
	s.load()
	return s
}

// Path returns the sidecar file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		s.log.Warnf("Could not read %s: %v", s.path, err)
		return
	}

	doc := emptyDocument()
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warnf("Ignoring corrupt metadata file %s: %v", s.path, err)
		return
	}
	if doc.Folders == nil {
		doc.Folders = map[string]FolderMeta{}
	}
	if doc.Passwords == nil {
		doc.Passwords = map[string]PasswordMeta{}
	}
	s.doc = doc
}

// save writes the document. Callers hold s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

// GetFolderMetadata returns the folder's settings, or the defaults.
func (s *Store) GetFolderMetadata(path string) FolderMeta {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.doc.Folders[path]; ok {
		return m
	}
	return FolderMeta{Color: DefaultFolderColor, Icon: DefaultFolderIcon}
}

// GetPasswordMetadata returns the entry's settings, or the defaults.
func (s *Store) GetPasswordMetadata(path string) PasswordMeta {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.doc.Passwords[path]; ok {
		return m
	}
	return PasswordMeta{Color: DefaultPasswordColor, Icon: DefaultPasswordIcon}
}

// SetFolderMetadata records a folder's colour and icon. An empty value
// keeps the current setting.
func (s *Store) SetFolderMetadata(path, color, icon string) error {
	if err := store.ValidatePath(path); err != nil {
		return err
	}
	if err := validateColor(color); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.doc.Folders[path]
	if !ok {
		m = FolderMeta{Color: DefaultFolderColor, Icon: DefaultFolderIcon}
	}
	if color != "" {
		m.Color = color
	}
	if icon != "" {
		m.Icon = icon
	}
	s.doc.Folders[path] = m
	return s.save()
}

// SetPasswordMetadata records an entry's colour and icon. An empty value
// keeps the current setting; the favicon is left untouched.
func (s *Store) SetPasswordMetadata(path, color, icon string) error {
	if err := store.ValidatePath(path); err != nil {
		return err
	}
	if err := validateColor(color); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.passwordLocked(path)
	if color != "" {
		m.Color = color
	}
	if icon != "" {
		m.Icon = icon
	}
	s.doc.Passwords[path] = m
	return s.save()
}

// SetPasswordFavicon stores base64 PNG data for an entry. Empty data
// clears the favicon.
func (s *Store) SetPasswordFavicon(path, data string) error {
	if err := store.ValidatePath(path); err != nil {
		return err
	}
	if data != "" {
		if _, err := base64.StdEncoding.DecodeString(data); err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrInvalidFavicon, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.passwordLocked(path)
	if data == "" {
		m.FaviconData = nil
	} else {
		m.FaviconData = &data
	}
	s.doc.Passwords[path] = m
	return s.save()
}

func (s *Store) passwordLocked(path string) PasswordMeta {
	if m, ok := s.doc.Passwords[path]; ok {
		return m
	}
	return PasswordMeta{Color: DefaultPasswordColor, Icon: DefaultPasswordIcon}
}

// RenameFolder moves the settings of a folder and of everything nested in
// it to newPath.
func (s *Store) RenameFolder(oldPath, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folders := make(map[string]FolderMeta, len(s.doc.Folders))
	passwords := make(map[string]PasswordMeta, len(s.doc.Passwords))
	changed := false
	for key, m := range s.doc.Folders {
		if moved, ok := rebase(key, oldPath, newPath); ok {
			key, changed = moved, true
		}
		folders[key] = m
	}
	for key, m := range s.doc.Passwords {
		if moved, ok := rebase(key, oldPath, newPath); ok && key != oldPath {
			key, changed = moved, true
		}
		passwords[key] = m
	}
	if !changed {
		return nil
	}
	s.doc.Folders, s.doc.Passwords = folders, passwords
	return s.save()
}

// RenamePassword moves one entry's settings.
func (s *Store) RenamePassword(oldPath, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.doc.Passwords[oldPath]
	if !ok {
		return nil
	}
	delete(s.doc.Passwords, oldPath)
	s.doc.Passwords[newPath] = m
	return s.save()
}

// RemoveFolder drops the settings of a folder and everything nested in it.
func (s *Store) RemoveFolder(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for key := range s.doc.Folders {
		if _, ok := rebase(key, path, ""); ok {
			delete(s.doc.Folders, key)
			changed = true
		}
	}
	for key := range s.doc.Passwords {
		if _, ok := rebase(key, path, ""); ok && key != path {
			delete(s.doc.Passwords, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save()
}

// RemovePassword drops one entry's settings.
func (s *Store) RemovePassword(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.doc.Passwords[path]; !ok {
		return nil
	}
	delete(s.doc.Passwords, path)
	return s.save()
}

// rebase reports whether key is prefix or lies below it, and returns key
// with prefix replaced by repl.
func rebase(key, prefix, repl string) (string, bool) {
	if key == prefix {
		return repl, true
	}
	if strings.HasPrefix(key, prefix+"/") {
		return repl + key[len(prefix):], true
	}
	return "", false
}

func validateColor(color string) error {
	if color != "" && !hexColor.MatchString(color) {
		return fmt.Errorf("%w: %q is not #rrggbb", kerrors.ErrInvalidColor, color)
	}
	return nil
}
