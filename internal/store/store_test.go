package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	kerrors "github.com/tobagin/secrets/internal/errors"
)

func TestListPasswordsAndFolders(t *testing.T) {
	s, _, _ := newTestStore(t, map[string]string{"a": "1", "b/c": "2"})

	// Hidden directories never show up.
	if err := os.MkdirAll(filepath.Join(s.Dir(), ".git", "objects"), 0700); err != nil {
		t.Fatalf("Failed to create .git: %v", err)
	}
	writeEntry(t, s.Dir(), ".secrets-cache/ignored")

	passwords, err := s.ListPasswords()
	if err != nil {
		t.Fatalf("ListPasswords failed: %v", err)
	}
	if want := []string{"a", "b/c"}; !reflect.DeepEqual(passwords, want) {
		t.Errorf("Expected passwords %v, got %v", want, passwords)
	}

	folders, err := s.ListFolders()
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if want := []string{"b"}; !reflect.DeepEqual(folders, want) {
		t.Errorf("Expected folders %v, got %v", want, folders)
	}
}

func TestListPasswords_MissingStore(t *testing.T) {
	s := New(Options{Dir: filepath.Join(t.TempDir(), "missing"), Runner: newFakePass()})
	passwords, err := s.ListPasswords()
	if err != nil {
		t.Fatalf("Expected no error for missing store, got %v", err)
	}
	if len(passwords) != 0 {
		t.Errorf("Expected no passwords, got %v", passwords)
	}
}

func TestInvalidPathNeverShellsOut(t *testing.T) {
	ctx := context.Background()
	s, runner, clip := newTestStore(t, map[string]string{"a": "1"})

	ops := map[string]func() error{
		"copy": func() error {
			_, err := s.CopyPassword(ctx, "../etc/passwd")
			return err
		},
		"delete": func() error {
			return s.DeletePassword(ctx, "../etc/passwd")
		},
		"insert": func() error {
			return s.InsertPassword(ctx, "a/../../x", "secret", true)
		},
		"show": func() error {
			_, err := s.GetContent(ctx, "/etc/passwd")
			return err
		},
		"move": func() error {
			return s.MovePassword(ctx, "a", "..")
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			if !errors.Is(err, kerrors.ErrInvalidPath) {
				t.Fatalf("Expected ErrInvalidPath, got %v", err)
			}
			if got := kerrors.UserMessage(err); got != "Invalid password path." {
				t.Errorf("Expected user message %q, got %q", "Invalid password path.", got)
			}
		})
	}

	if n := len(runner.calls()); n != 0 {
		t.Errorf("Expected no subprocess for invalid paths, got %d", n)
	}
	if clip.text != "" {
		t.Errorf("Expected clipboard untouched, got %q", clip.text)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path  string
		valid bool
	}{
		{"email", true},
		{"web/github.com", true},
		{"Work Stuff/vpn key", true},
		{"", false},
		{"  ", false},
		{"/abs", false},
		{"trailing/", false},
		{"a//b", false},
		{"..", false},
		{"a/../b", false},
		{"./a", false},
		{"-rf", false},
		{"a\\b", false},
		{"a\nb", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.valid && err != nil {
				t.Errorf("Expected %q to be valid, got %v", tt.path, err)
			}
			if !tt.valid && !errors.Is(err, kerrors.ErrInvalidPath) {
				t.Errorf("Expected %q to be rejected, got %v", tt.path, err)
			}
		})
	}
}

func TestGetContent_CachesDecryption(t *testing.T) {
	ctx := context.Background()
	s, runner, _ := newTestStore(t, map[string]string{"mail": "pw\nuser: me\n"})

	for i := 0; i < 3; i++ {
		got, err := s.GetContent(ctx, "mail")
		if err != nil {
			t.Fatalf("GetContent failed: %v", err)
		}
		if got != "pw\nuser: me\n" {
			t.Errorf("Expected decrypted content, got %q", got)
		}
	}
	if n := runner.countShows(); n != 1 {
		t.Errorf("Expected one pass show, got %d", n)
	}

	call := runner.calls()[0]
	if !isCommand(call, "pass", "show", "--", "mail") {
		t.Errorf("Unexpected command: %s", call)
	}
}

func TestGetContent_MissingEntry(t *testing.T) {
	s, runner, _ := newTestStore(t, nil)
	_, err := s.GetContent(context.Background(), "nope")
	assertIs(t, err, kerrors.ErrEntryNotFound)
	if len(runner.calls()) != 0 {
		t.Error("Expected no subprocess for a missing entry")
	}
}

func TestGetContent_DecryptFailure(t *testing.T) {
	s, runner, _ := newTestStore(t, map[string]string{"x": "1"})
	runner.fail["x"] = true

	_, err := s.GetContent(context.Background(), "x")
	assertIs(t, err, kerrors.ErrDecryptFailed)
	if s.cache.Len() != 0 {
		t.Error("Expected failed decryption to stay out of the cache")
	}
}

func TestInsertPassword(t *testing.T) {
	ctx := context.Background()
	s, runner, _ := newTestStore(t, map[string]string{"existing": "old"})

	if err := s.InsertPassword(ctx, "new/entry", "pw\nurl: x", false); err != nil {
		t.Fatalf("InsertPassword failed: %v", err)
	}
	call := runner.calls()[0]
	if !isCommand(call, "pass", "insert", "--multiline", "--", "new/entry") {
		t.Errorf("Unexpected command: %s", call)
	}
	if string(call.Stdin) != "pw\nurl: x" {
		t.Errorf("Expected content on stdin, got %q", call.Stdin)
	}

	err := s.InsertPassword(ctx, "existing", "pw", false)
	assertIs(t, err, kerrors.ErrEntryExists)

	if err := s.InsertPassword(ctx, "existing", "pw", true); err != nil {
		t.Fatalf("Forced insert failed: %v", err)
	}
	last := runner.calls()[len(runner.calls())-1]
	if !isCommand(last, "pass", "insert", "--multiline", "--force", "--", "existing") {
		t.Errorf("Unexpected command: %s", last)
	}
}

func TestInsertPassword_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, map[string]string{"e": "old"})

	if _, err := s.GetContent(ctx, "e"); err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if err := s.InsertPassword(ctx, "e", "new", true); err != nil {
		t.Fatalf("InsertPassword failed: %v", err)
	}
	if _, ok := s.cache.Get("e"); ok {
		t.Error("Expected cache entry to be invalidated")
	}
}

func TestDeletePasswordAndFolder(t *testing.T) {
	ctx := context.Background()
	s, runner, _ := newTestStore(t, map[string]string{"a": "1", "f/b": "2"})

	if err := s.DeletePassword(ctx, "a"); err != nil {
		t.Fatalf("DeletePassword failed: %v", err)
	}
	if err := s.DeleteFolder(ctx, "f"); err != nil {
		t.Fatalf("DeleteFolder failed: %v", err)
	}

	calls := runner.calls()
	if !isCommand(calls[0], "pass", "rm", "--force", "--", "a") {
		t.Errorf("Unexpected command: %s", calls[0])
	}
	if !isCommand(calls[1], "pass", "rm", "--recursive", "--force", "--", "f") {
		t.Errorf("Unexpected command: %s", calls[1])
	}

	assertIs(t, s.DeletePassword(ctx, "missing"), kerrors.ErrEntryNotFound)
	assertIs(t, s.DeleteFolder(ctx, "missing"), kerrors.ErrFolderNotFound)
}

func TestMovePassword(t *testing.T) {
	ctx := context.Background()
	s, runner, _ := newTestStore(t, map[string]string{"old": "1", "taken": "2"})

	if err := s.MovePassword(ctx, "old", "dir/new"); err != nil {
		t.Fatalf("MovePassword failed: %v", err)
	}
	if call := runner.calls()[0]; !isCommand(call, "pass", "mv", "--force", "--", "old", "dir/new") {
		t.Errorf("Unexpected command: %s", call)
	}

	assertIs(t, s.MovePassword(ctx, "old", "taken"), kerrors.ErrEntryExists)
	assertIs(t, s.MovePassword(ctx, "ghost", "elsewhere"), kerrors.ErrEntryNotFound)
}

func TestCopyPassword(t *testing.T) {
	ctx := context.Background()
	s, _, clip := newTestStore(t, map[string]string{"bank": "s3cret\nuser: me\n", "empty": "\nuser: me"})

	pw, err := s.CopyPassword(ctx, "bank")
	if err != nil {
		t.Fatalf("CopyPassword failed: %v", err)
	}
	if pw != "s3cret" || clip.text != "s3cret" {
		t.Errorf("Expected first line on clipboard, got %q / %q", pw, clip.text)
	}

	_, err = s.CopyPassword(ctx, "empty")
	assertIs(t, err, kerrors.ErrEmptyPassword)
}

func TestCopyPassword_ClipboardUnavailable(t *testing.T) {
	s, _, clip := newTestStore(t, map[string]string{"bank": "s3cret"})
	clip.err = errors.New("no xclip")

	_, err := s.CopyPassword(context.Background(), "bank")
	assertIs(t, err, kerrors.ErrClipboardUnavailable)
}

func TestClearClipboard(t *testing.T) {
	s, _, clip := newTestStore(t, nil)

	clip.text = "something else"
	if err := s.ClearClipboard("s3cret"); err != nil {
		t.Fatalf("ClearClipboard failed: %v", err)
	}
	if clip.text != "something else" {
		t.Error("Expected clipboard left alone when it no longer holds the password")
	}

	clip.text = "s3cret"
	if err := s.ClearClipboard("s3cret"); err != nil {
		t.Fatalf("ClearClipboard failed: %v", err)
	}
	if clip.text != "" {
		t.Errorf("Expected clipboard cleared, got %q", clip.text)
	}
}

func TestInit(t *testing.T) {
	s, runner, _ := newTestStore(t, nil)

	if err := s.Init(context.Background(), "me@example.com"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if call := runner.calls()[0]; !isCommand(call, "pass", "init", "--", "me@example.com") {
		t.Errorf("Unexpected command: %s", call)
	}

	if err := s.Init(context.Background()); err == nil {
		t.Error("Expected error without GPG IDs")
	}
	if err := s.Init(context.Background(), "--force"); err == nil {
		t.Error("Expected error for flag-like GPG ID")
	}
}

func TestGPGIDs(t *testing.T) {
	s, _, _ := newTestStore(t, nil)
	if !s.IsInitialized() {
		t.Fatal("Expected store to be initialized")
	}

	ids, err := s.GPGIDs()
	if err != nil {
		t.Fatalf("GPGIDs failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"ABCDEF0123456789"}) {
		t.Errorf("Unexpected GPG IDs: %v", ids)
	}

	empty := New(Options{Dir: t.TempDir(), Runner: newFakePass()})
	if empty.IsInitialized() {
		t.Error("Expected empty directory to be uninitialized")
	}
	_, err = empty.GPGIDs()
	assertIs(t, err, kerrors.ErrStoreNotInitialized)
}

func TestGit(t *testing.T) {
	ctx := context.Background()
	s, runner, _ := newTestStore(t, nil)

	_, err := s.Git(ctx, GitPull)
	assertIs(t, err, kerrors.ErrGitNotInitialized)

	_, err = s.Git(ctx, GitOperation("reset"))
	assertIs(t, err, kerrors.ErrUnsupportedGitOperation)

	if err := os.Mkdir(filepath.Join(s.Dir(), ".git"), 0700); err != nil {
		t.Fatalf("Failed to create .git: %v", err)
	}
	runner.output.Stdout = []byte("## main...origin/main\n")

	out, err := s.Git(ctx, GitStatus)
	if err != nil {
		t.Fatalf("Git status failed: %v", err)
	}
	if out != "## main...origin/main" {
		t.Errorf("Unexpected git output %q", out)
	}
	if call := runner.calls()[0]; !isCommand(call, "pass", "git", "status") {
		t.Errorf("Unexpected command: %s", call)
	}
}

func TestParseGrepOutput(t *testing.T) {
	out := "\x1b[94mweb/\x1b[1m\x1b[94mgithub\x1b[0m:\n" +
		"url: https://github.com\n" +
		"\x1b[94mmail\x1b[0m:\n" +
		"user: \x1b[31mme\x1b[0m\n"

	got := parseGrepOutput(out, []string{"mail", "web/github"})
	want := []GrepMatch{
		{Path: "web/github", Lines: []string{"url: https://github.com"}},
		{Path: "mail", Lines: []string{"user: me"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestSearch(t *testing.T) {
	s, _, _ := newTestStore(t, map[string]string{
		"web/github":   "1",
		"web/gitlab":   "2",
		"mail/proton":  "3",
		"bank/savings": "4",
	})

	matches, err := s.Search("git", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %+v", matches)
	}
	for _, m := range matches {
		if m.Path != "web/github" && m.Path != "web/gitlab" {
			t.Errorf("Unexpected match %q", m.Path)
		}
	}

	limited, _ := s.Search("", 3)
	if len(limited) != 3 {
		t.Errorf("Expected limit to cap results at 3, got %d", len(limited))
	}
}
