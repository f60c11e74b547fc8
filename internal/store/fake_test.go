package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/gpg"
)

// fakePass answers pass and gpg invocations from an in-memory table and
// records call order and concurrency.
type fakePass struct {
	mu        sync.Mutex
	contents  map[string]string
	fail      map[string]bool
	delay     time.Duration
	commands  []gpg.Command
	inFlight  int
	maxFlight int
	// showFlight holds the in-flight count observed by each pass show.
	showFlight []int
	output     gpg.Output
	err        error
}

func newFakePass() *fakePass {
	return &fakePass{contents: map[string]string{}, fail: map[string]bool{}}
}

func (f *fakePass) Run(ctx context.Context, c gpg.Command) (gpg.Output, error) {
	f.mu.Lock()
	f.commands = append(f.commands, c)
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	isShow := c.Name == "pass" && len(c.Args) > 0 && c.Args[0] == "show"
	if isShow {
		f.showFlight = append(f.showFlight, f.inFlight)
	}
	delay := f.delay
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if delay > 0 {
		time.Sleep(delay)
	}

	if !isShow {
		return f.output, f.err
	}

	path := c.Args[len(c.Args)-1]
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[path] {
		return gpg.Output{Stderr: []byte("gpg: decryption failed: No secret key")},
			fmt.Errorf("%w: pass show: exit status 2", kerrors.ErrCommandFailed)
	}
	return gpg.Output{Stdout: []byte(f.contents[path])}, nil
}

func (f *fakePass) calls() []gpg.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gpg.Command(nil), f.commands...)
}

func (f *fakePass) countShows() int {
	n := 0
	for _, c := range f.calls() {
		if c.Name == "pass" && c.Args[0] == "show" {
			n++
		}
	}
	return n
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

// newTestStore creates a store directory with a .gpg-id and one empty .gpg
// file per entry, backed by a fakePass holding the entry contents.
func newTestStore(t *testing.T, entries map[string]string) (*Store, *fakePass, *fakeClipboard) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".gpg-id"), []byte("ABCDEF0123456789\n"), 0600); err != nil {
		t.Fatalf("Failed to write .gpg-id: %v", err)
	}

	runner := newFakePass()
	for path, content := range entries {
		writeEntry(t, dir, path)
		runner.contents[path] = content
	}

	clip := &fakeClipboard{}
	s := New(Options{
		Dir:       dir,
		Runner:    runner,
		Clipboard: clip,
		Bulk: BulkOptions{
			WarmupCount:   3,
			MaxConcurrent: 2,
			Pacing:        time.Millisecond,
			Timeout:       time.Second,
		},
	})
	return s, runner, clip
}

func writeEntry(t *testing.T, dir, path string) {
	t.Helper()
	file := filepath.Join(dir, filepath.FromSlash(path)+".gpg")
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		t.Fatalf("Failed to create folder for %s: %v", path, err)
	}
	if err := os.WriteFile(file, []byte("encrypted:"+path), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", file, err)
	}
}

func isCommand(c gpg.Command, name string, args ...string) bool {
	if c.Name != name || len(c.Args) < len(args) {
		return false
	}
	return strings.Join(c.Args[:len(args)], " ") == strings.Join(args, " ")
}

func assertIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("Expected error %v, got %v", target, err)
	}
}
