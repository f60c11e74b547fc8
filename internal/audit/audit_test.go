package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	kerrors "github.com/tobagin/secrets/internal/errors"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "data", "audit.jsonl"), true)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRecord_CreatesFileAndDirectory(t *testing.T) {
	l := newTestLog(t)

	l.Record(l.Entry("show"), nil)

	if _, err := os.Stat(l.Path()); os.IsNotExist(err) {
		t.Fatalf("Audit log file was not created")
	}
}

func TestRecord_AppendsEntries(t *testing.T) {
	l := newTestLog(t)

	l.Record(Entry{User: "alice", Operation: "show", Path: "a"}, nil)
	l.Record(Entry{User: "alice", Operation: "copy", Path: "a"}, nil)
	l.Record(Entry{User: "alice", Operation: "delete", Path: "b"}, nil)

	if lines := readLines(t, l.Path()); len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}
}

func TestRecord_ValidJSON(t *testing.T) {
	l := newTestLog(t)

	entry := l.Entry("move")
	entry.Path = "old/name"
	entry.Target = "new/name"
	l.Record(entry, nil)

	var parsed Entry
	if err := json.Unmarshal([]byte(readLines(t, l.Path())[0]), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}

	if parsed.Operation != "move" || parsed.Path != "old/name" || parsed.Target != "new/name" {
		t.Errorf("Unexpected entry: %+v", parsed)
	}
	if !parsed.OK {
		t.Error("Expected ok=true for a nil error")
	}
	if len(parsed.ID) != 36 {
		t.Errorf("Expected a UUID id, got %q", parsed.ID)
	}
}

func TestRecord_TimestampFormat(t *testing.T) {
	l := newTestLog(t)
	l.Record(Entry{Operation: "show"}, nil)

	entries, err := l.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}

	ts := entries[0].Timestamp
	if !strings.HasSuffix(ts, "Z") || !strings.Contains(ts, ".") {
		t.Errorf("Timestamp should be UTC with microseconds, got %s", ts)
	}
	if _, err := entries[0].Time(); err != nil {
		t.Errorf("Timestamp should parse: %v", err)
	}
}

func TestRecord_FailureUsesUserMessage(t *testing.T) {
	l := newTestLog(t)
	l.Record(Entry{Operation: "delete", Path: "../x"}, kerrors.ErrInvalidPath)

	entries, _ := l.ReadEntries()
	if entries[0].OK {
		t.Error("Expected ok=false")
	}
	if entries[0].Error != "Invalid password path." {
		t.Errorf("Expected user-facing error, got %q", entries[0].Error)
	}
}

func TestRecord_OmitsEmptyFields(t *testing.T) {
	l := newTestLog(t)
	l.Record(Entry{User: "alice", Operation: "git"}, nil)

	line := readLines(t, l.Path())[0]
	for _, field := range []string{`"path"`, `"target"`, `"error"`, `"count"`} {
		if strings.Contains(line, field) {
			t.Errorf("Empty %s field should be omitted", field)
		}
	}
}

func TestRecord_Disabled(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "audit.jsonl"), false)
	l.Record(Entry{Operation: "show"}, nil)

	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Error("Disabled log should not create a file")
	}
	if _, err := l.ReadEntries(); !errors.Is(err, kerrors.ErrNoAuditLog) {
		t.Errorf("Expected ErrNoAuditLog, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	l := newTestLog(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Record(Entry{Operation: "old", Timestamp: now.AddDate(0, 0, -100).Format(TimestampFormat)}, nil)
	l.Record(Entry{Operation: "recent", Timestamp: now.AddDate(0, 0, -10).Format(TimestampFormat)}, nil)
	l.Record(Entry{Operation: "today"}, nil)

	removed, err := l.Prune(90 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed entry, got %d", removed)
	}

	entries, _ := l.ReadEntries()
	if len(entries) != 2 || entries[0].Operation != "recent" {
		t.Errorf("Unexpected entries after prune: %+v", entries)
	}
}

func TestParseEntries_ValidData(t *testing.T) {
	data := []byte(`{"ts":"2024-01-15T10:30:00.123456Z","user":"alice","op":"show"}
{"ts":"2024-01-15T10:35:00.456789Z","user":"bob","op":"copy"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].User != "alice" {
		t.Errorf("Expected first user alice, got %s", entries[0].User)
	}
	if entries[1].User != "bob" {
		t.Errorf("Expected second user bob, got %s", entries[1].User)
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2024-01-15T10:30:00.123456Z","user":"alice","op":"show"}
this is not valid json
{"ts":"2024-01-15T10:35:00.456789Z","user":"bob","op":"copy"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 valid entries (malformed should be skipped), got %d", len(entries))
	}
}

func TestParseEntries_EmptyData(t *testing.T) {
	entries, err := ParseEntries([]byte{})
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if entries != nil {
		t.Errorf("Expected nil entries for empty data, got %v", entries)
	}
}
