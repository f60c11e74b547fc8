package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	// t.Setenv cannot unset, so drop the variable explicitly for this test.
	unsetNoColor(t)
	original := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = original })

	result := Code.Sprint("secrets init")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "secrets init", "`secrets init`"},
		{"Path has no decoration", Path, "email/work", "email/work"},
		{"Folder adds slash", Folder, "email", "email/"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Highlight adds quotes", Highlight, "alice", "'alice'"},
		{"Muted adds parentheses", Muted, "cached", "(cached)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.formatter.Sprint(tt.input)
			if got != tt.want {
				t.Errorf("%s.Sprint(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestSwatch(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := Swatch("#3584e4"); got != "#3584e4" {
		t.Errorf("Swatch without color should return the hex value, got %q", got)
	}
	if got := Swatch("blue"); got != "blue" {
		t.Errorf("Swatch should pass malformed values through, got %q", got)
	}
}

func TestParseHex(t *testing.T) {
	r, g, b, ok := parseHex("#9141ac")
	if !ok {
		t.Fatal("Expected #9141ac to parse")
	}
	if r != 0x91 || g != 0x41 || b != 0xac {
		t.Errorf("Unexpected components: %d %d %d", r, g, b)
	}
	if _, _, _, ok := parseHex("#12345"); ok {
		t.Error("Expected short value to be rejected")
	}
}

func TestMask(t *testing.T) {
	if got := Mask("abc"); got != "•••" {
		t.Errorf("Mask(abc) = %q", got)
	}
	if got := Mask(""); got != "" {
		t.Errorf("Mask(\"\") = %q", got)
	}
}

func TestEnsureNewline(t *testing.T) {
	if got := EnsureNewline("done"); got != "done\n" {
		t.Errorf("EnsureNewline(done) = %q", got)
	}
	if got := EnsureNewline("done\n"); got != "done\n" {
		t.Errorf("EnsureNewline should not double newlines, got %q", got)
	}
}
