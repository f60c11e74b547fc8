package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/tobagin/secrets/internal/app"
	"github.com/tobagin/secrets/internal/configs"
	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/gpg"
)

const testKeyListing = `sec:u:255:22:AAAA1111BBBB2222:1700000000:::u:::scESC:::+:::ed25519:::0:
fpr:::::::::0123456789ABCDEF0123AAAA1111BBBB2222:
uid:u::::1700000000::HASH::Alice Example <alice@example.com>:::::::::0:
`

// fakeTools emulates pass on a real directory: entries are files whose
// "ciphertext" is the plaintext prefixed with "enc:".
type fakeTools struct {
	mu       sync.Mutex
	dir      string
	commands []gpg.Command
	keys     string
	noGPG    bool
	gitOut   string
}

func (f *fakeTools) Run(ctx context.Context, c gpg.Command) (gpg.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, c)

	if c.Name == "gpg" {
		if f.noGPG {
			return gpg.Output{}, kerrors.ErrGPGNotFound
		}
		switch {
		case has(c.Args, "--version"):
			return gpg.Output{Stdout: []byte("gpg (GnuPG) 2.4.4\n")}, nil
		case has(c.Args, "--list-keys"), has(c.Args, "--list-secret-keys"):
			return gpg.Output{Stdout: []byte(f.keys)}, nil
		}
		return gpg.Output{}, nil
	}

	args := c.Args
	switch args[0] {
	case "show":
		data, err := os.ReadFile(f.file(last(args)))
		if err != nil {
			return gpg.Output{}, fmt.Errorf("%w: not in store", kerrors.ErrCommandFailed)
		}
		return gpg.Output{Stdout: []byte(strings.TrimPrefix(string(data), "enc:"))}, nil
	case "insert":
		return gpg.Output{}, f.write(last(args), "enc:"+string(c.Stdin))
	case "rm":
		if has(args, "--recursive") {
			return gpg.Output{}, os.RemoveAll(filepath.Join(f.dir, last(args)))
		}
		return gpg.Output{}, os.Remove(f.file(last(args)))
	case "mv":
		from, to := args[len(args)-2], args[len(args)-1]
		src, dst := f.file(from), f.file(to)
		if _, err := os.Stat(src); err != nil {
			src, dst = filepath.Join(f.dir, from), filepath.Join(f.dir, to)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
			return gpg.Output{}, err
		}
		return gpg.Output{}, os.Rename(src, dst)
	case "init":
		return gpg.Output{}, os.WriteFile(filepath.Join(f.dir, ".gpg-id"), []byte(last(args)+"\n"), 0600)
	case "git":
		return gpg.Output{Stdout: []byte(f.gitOut)}, nil
	case "grep":
		return gpg.Output{}, nil
	}
	return gpg.Output{}, fmt.Errorf("%w: unexpected %v", kerrors.ErrCommandFailed, args)
}

func (f *fakeTools) file(path string) string {
	return filepath.Join(f.dir, filepath.FromSlash(path)+".gpg")
}

func (f *fakeTools) write(path, data string) error {
	file := f.file(path)
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return err
	}
	return os.WriteFile(file, []byte(data), 0600)
}

func (f *fakeTools) count(sub string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.commands {
		if len(c.Args) > 0 && c.Args[0] == sub {
			n++
		}
	}
	return n
}

func has(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func last(args []string) string {
	return args[len(args)-1]
}

type memClipboard struct{ text string }

func (c *memClipboard) ReadAll() (string, error) { return c.text, nil }
func (c *memClipboard) WriteAll(s string) error  { c.text = s; return nil }

// newTestApp builds an app.Context over a temp store initialized for the
// test key, holding the given entries.
func newTestApp(t *testing.T, entries map[string]string) (*app.Context, *fakeTools, *memClipboard) {
	t.Helper()

	root := t.TempDir()
	settings := &configs.Settings{
		ConfigDir:  filepath.Join(root, "config"),
		ConfigPath: filepath.Join(root, "config", "config.json"),
		DataDir:    filepath.Join(root, "data"),
		AuditPath:  filepath.Join(root, "data", "audit.jsonl"),
		StoreDir:   filepath.Join(root, "store"),
	}
	cfg := configs.Default()
	cfg.Logging.FileEnabled = false
	cfg.Bulk.PacingMS = 0
	if err := configs.Save(settings.ConfigPath, cfg); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	tools := &fakeTools{dir: settings.StoreDir, keys: testKeyListing}
	if err := os.MkdirAll(settings.StoreDir, 0700); err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(settings.StoreDir, ".gpg-id"), []byte("alice@example.com\n"), 0600); err != nil {
		t.Fatalf("Failed to write .gpg-id: %v", err)
	}
	for path, content := range entries {
		if err := tools.write(path, "enc:"+content); err != nil {
			t.Fatalf("Failed to write entry %s: %v", path, err)
		}
	}

	clip := &memClipboard{}
	a, err := app.Open(app.Options{Settings: settings, Runner: tools, Clipboard: clip})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a, tools, clip
}
