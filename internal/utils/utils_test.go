package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic_CreatesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data.json")

	if err := WriteFileAtomic(path, []byte("first"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic failed on replace: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Expected %q, got %q", "second", string(data))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected permissions 0600, got %o", info.Mode().Perm())
	}
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	if err := WriteFileAtomic(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the target file, found %d entries", len(entries))
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"SingleLine", "hunter2", "hunter2"},
		{"MultiLine", "hunter2\nuser: bob\n", "hunter2"},
		{"CRLF", "hunter2\r\nuser: bob", "hunter2"},
		{"Empty", "", ""},
		{"LeadingNewline", "\nsecond", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FirstLine(tc.input); got != tc.expected {
				t.Errorf("FirstLine(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"maybe", false},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("SECRETS_TEST_FLAG", tc.value)
			if got := EnvBool("SECRETS_TEST_FLAG"); got != tc.expected {
				t.Errorf("EnvBool(%q) = %v, expected %v", tc.value, got, tc.expected)
			}
		})
	}
}

func TestReadLimited(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int64
		wantErr bool
	}{
		{"within limit", "hunter2\n", 16, false},
		{"exactly at limit", "abcd", 4, false},
		{"over limit", "abcde", 4, true},
		{"empty", "", 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := readLimited(strings.NewReader(tt.input), tt.limit)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected an error, got %q", data)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if string(data) != tt.input {
				t.Errorf("Expected %q, got %q", tt.input, data)
			}
		})
	}
}
