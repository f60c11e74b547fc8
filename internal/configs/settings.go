package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tobagin/secrets/internal/utils"
)

// AppID is the application identifier used for config and data directories.
const AppID = "io.github.tobagin.secrets"

type Settings struct {
	ConfigDir    string
	ConfigPath   string
	DataDir      string
	LogDir       string
	AuditPath    string
	StoreDir     string
	ResourcePath string

	Flatpak    bool
	Production bool
	Debug      bool

	// LogLevel is SECRETS_LOG_LEVEL when set; it wins over the config file.
	LogLevel string
}

// ResolveSettings builds Settings from the process environment.
func ResolveSettings() (*Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting home directory: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error getting config directory: %w", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	storeDir := os.Getenv("PASSWORD_STORE_DIR")
	if storeDir == "" {
		storeDir = filepath.Join(homeDir, ".password-store")
	}

	appConfigDir := filepath.Join(configDir, AppID)
	appDataDir := filepath.Join(dataDir, AppID)

	return &Settings{
		ConfigDir:    appConfigDir,
		ConfigPath:   filepath.Join(appConfigDir, "config.json"),
		DataDir:      appDataDir,
		LogDir:       filepath.Join(appDataDir, "logs"),
		AuditPath:    filepath.Join(appDataDir, "audit.jsonl"),
		StoreDir:     filepath.Clean(storeDir),
		ResourcePath: os.Getenv("SECRETS_RESOURCE_PATH"),
		Flatpak:      os.Getenv("FLATPAK_ID") != "",
		Production:   utils.EnvBool("SECRETS_PRODUCTION_MODE"),
		Debug:        utils.EnvBool("SECRETS_DEBUG_MODE"),
		LogLevel:     os.Getenv("SECRETS_LOG_LEVEL"),
	}, nil
}

// EffectiveLogLevel picks the log level from, in order: SECRETS_LOG_LEVEL,
// debug mode, the config file, and production mode.
func (s *Settings) EffectiveLogLevel(cfg LoggingConfig) string {
	switch {
	case s.LogLevel != "":
		return s.LogLevel
	case s.Debug:
		return "debug"
	case cfg.Level != "":
		return cfg.Level
	case s.Production:
		return "warning"
	default:
		return "info"
	}
}
