package ui

import (
	"os"
	"testing"
)

func unsetNoColor(t *testing.T) {
	t.Helper()
	if err := os.Unsetenv("NO_COLOR"); err != nil {
		t.Fatalf("Failed to unset NO_COLOR: %v", err)
	}
}
