package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tobagin/secrets/internal/configs"
	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/gpg"
)

type nopRunner struct{}

func (nopRunner) Run(ctx context.Context, c gpg.Command) (gpg.Output, error) {
	return gpg.Output{}, nil
}

func testSettings(t *testing.T) *configs.Settings {
	t.Helper()
	root := t.TempDir()
	return &configs.Settings{
		ConfigDir:  filepath.Join(root, "config"),
		ConfigPath: filepath.Join(root, "config", "config.json"),
		DataDir:    filepath.Join(root, "data"),
		LogDir:     filepath.Join(root, "data", "logs"),
		AuditPath:  filepath.Join(root, "data", "audit.jsonl"),
		StoreDir:   filepath.Join(root, "store"),
	}
}

func TestOpen_Defaults(t *testing.T) {
	settings := testSettings(t)

	a, err := Open(Options{Settings: settings, Runner: nopRunner{}})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	if a.ConfigErr != nil {
		t.Errorf("Expected no config error without a file, got %v", a.ConfigErr)
	}
	if a.Config.Bulk.WarmupCount != 3 {
		t.Errorf("Expected default warm-up count 3, got %d", a.Config.Bulk.WarmupCount)
	}
	if a.Store.Dir() != settings.StoreDir {
		t.Errorf("Expected store dir %s, got %s", settings.StoreDir, a.Store.Dir())
	}
	if a.Env.StoreDir != settings.StoreDir {
		t.Errorf("Expected gpg environment to carry the store dir, got %s", a.Env.StoreDir)
	}
	if a.Metadata.Path() != filepath.Join(settings.StoreDir, ".secrets_metadata.json") {
		t.Errorf("Unexpected metadata path %s", a.Metadata.Path())
	}
	if !a.Audit.Enabled() {
		t.Error("Expected audit log enabled by default")
	}
}

func TestOpen_StoreDirOverride(t *testing.T) {
	settings := testSettings(t)
	override := filepath.Join(t.TempDir(), "other")

	a, err := Open(Options{Settings: settings, Runner: nopRunner{}, StoreDir: override})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	if a.Store.Dir() != override {
		t.Errorf("Expected overridden store dir %s, got %s", override, a.Store.Dir())
	}
}

func TestOpen_CorruptConfigFallsBack(t *testing.T) {
	settings := testSettings(t)
	if err := os.MkdirAll(settings.ConfigDir, 0700); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(settings.ConfigPath, []byte("{broken"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	a, err := Open(Options{Settings: settings, Runner: nopRunner{}})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	if !errors.Is(a.ConfigErr, kerrors.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", a.ConfigErr)
	}
	if a.Config.Security.CacheTTL != 3600 {
		t.Errorf("Expected default cache TTL, got %d", a.Config.Security.CacheTTL)
	}
}

func TestOpen_ConfigDisablesAudit(t *testing.T) {
	settings := testSettings(t)
	cfg := configs.Default()
	cfg.Compliance.AuditEnabled = false
	cfg.Logging.FileEnabled = false
	if err := configs.Save(settings.ConfigPath, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	a, err := Open(Options{Settings: settings, Runner: nopRunner{}})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	if a.Audit.Enabled() {
		t.Error("Expected audit log disabled by config")
	}
	if _, err := os.Stat(settings.LogDir); !os.IsNotExist(err) {
		t.Error("Expected no log directory when file logging is off")
	}
}
