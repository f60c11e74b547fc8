package configs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/utils"
)

type Config struct {
	UI         UIConfig         `json:"ui" mapstructure:"ui"`
	Security   SecurityConfig   `json:"security" mapstructure:"security"`
	Search     SearchConfig     `json:"search" mapstructure:"search"`
	Git        GitConfig        `json:"git" mapstructure:"git"`
	Compliance ComplianceConfig `json:"compliance" mapstructure:"compliance"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
	Bulk       BulkConfig       `json:"bulk" mapstructure:"bulk"`
}

type UIConfig struct {
	Theme         string `json:"theme" mapstructure:"theme"`
	ShowFavicons  bool   `json:"show_favicons" mapstructure:"show_favicons"`
	ShowPasswords bool   `json:"show_passwords" mapstructure:"show_passwords"`
}

type SecurityConfig struct {
	ClipboardTimeout    int  `json:"clipboard_timeout" mapstructure:"clipboard_timeout"`
	CacheEnabled        bool `json:"cache_enabled" mapstructure:"cache_enabled"`
	CacheTTL            int  `json:"cache_ttl" mapstructure:"cache_ttl"`
	BulkCacheTTL        int  `json:"bulk_cache_ttl" mapstructure:"bulk_cache_ttl"`
	CacheMaxEntries     int  `json:"cache_max_entries" mapstructure:"cache_max_entries"`
	BulkCacheMaxEntries int  `json:"bulk_cache_max_entries" mapstructure:"bulk_cache_max_entries"`
}

type SearchConfig struct {
	IncludeContent bool `json:"include_content" mapstructure:"include_content"`
	MaxResults     int  `json:"max_results" mapstructure:"max_results"`
}

type GitConfig struct {
	AutoPull bool `json:"auto_pull" mapstructure:"auto_pull"`
	AutoPush bool `json:"auto_push" mapstructure:"auto_push"`
}

type ComplianceConfig struct {
	AuditEnabled       bool `json:"audit_enabled" mapstructure:"audit_enabled"`
	AuditRetentionDays int  `json:"audit_retention_days" mapstructure:"audit_retention_days"`
}

type LoggingConfig struct {
	// Level is empty unless set; see Settings.EffectiveLogLevel.
	Level       string `json:"level" mapstructure:"level"`
	FileEnabled bool   `json:"file_enabled" mapstructure:"file_enabled"`
	MaxSizeMB   int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups  int    `json:"max_backups" mapstructure:"max_backups"`
	Compress    bool   `json:"compress" mapstructure:"compress"`
}

// BulkConfig tunes bulk decryption. WarmupCount entries are decrypted one
// at a time before the worker pool starts, so a single pinentry prompt can
// unlock the agent.
type BulkConfig struct {
	WarmupCount    int `json:"warmup_count" mapstructure:"warmup_count"`
	MaxConcurrent  int `json:"max_concurrent" mapstructure:"max_concurrent"`
	PacingMS       int `json:"pacing_ms" mapstructure:"pacing_ms"`
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		UI: UIConfig{
			Theme:        "auto",
			ShowFavicons: true,
		},
		Security: SecurityConfig{
			ClipboardTimeout:    45,
			CacheEnabled:        true,
			CacheTTL:            3600,
			BulkCacheTTL:        7200,
			CacheMaxEntries:     1000,
			BulkCacheMaxEntries: 2000,
		},
		Search: SearchConfig{
			MaxResults: 50,
		},
		Compliance: ComplianceConfig{
			AuditEnabled:       true,
			AuditRetentionDays: 90,
		},
		Logging: LoggingConfig{
			FileEnabled: true,
			MaxSizeMB:   10,
			MaxBackups:  5,
			Compress:    true,
		},
		Bulk: BulkConfig{
			WarmupCount:    3,
			MaxConcurrent:  2,
			PacingMS:       100,
			TimeoutSeconds: 45,
		},
	}
}

// Load reads the configuration at path. Values absent from the file keep
// their defaults. On a parse failure the defaults are returned together
// with an error wrapping ErrInvalidConfig.
func Load(path string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return Default(), err
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
			return Default(), fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
		}
	} else if !os.IsNotExist(err) {
		return Default(), fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return Default(), fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Save writes the configuration to path as indented JSON.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := utils.WriteFileAtomic(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// newViper returns a viper instance seeded with the defaults and bound to
// the environment overrides.
func newViper() (*viper.Viper, error) {
	defaults, err := json.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := v.BindEnv("logging.level", "SECRETS_LOG_LEVEL"); err != nil {
		return nil, err
	}

	return v, nil
}

// Normalize replaces out-of-range values with their defaults.
func (c *Config) Normalize() {
	d := Default()

	if c.Security.CacheTTL <= 0 {
		c.Security.CacheTTL = d.Security.CacheTTL
	}
	if c.Security.BulkCacheTTL < c.Security.CacheTTL {
		c.Security.BulkCacheTTL = c.Security.CacheTTL
	}
	if c.Security.CacheMaxEntries <= 0 {
		c.Security.CacheMaxEntries = d.Security.CacheMaxEntries
	}
	if c.Security.BulkCacheMaxEntries < c.Security.CacheMaxEntries {
		c.Security.BulkCacheMaxEntries = c.Security.CacheMaxEntries
	}
	if c.Security.ClipboardTimeout < 0 {
		c.Security.ClipboardTimeout = 0
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = d.Search.MaxResults
	}
	if c.Compliance.AuditRetentionDays < 0 {
		c.Compliance.AuditRetentionDays = 0
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = d.Logging.MaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Bulk.WarmupCount < 0 {
		c.Bulk.WarmupCount = 0
	}
	if c.Bulk.MaxConcurrent <= 0 {
		c.Bulk.MaxConcurrent = d.Bulk.MaxConcurrent
	}
	if c.Bulk.PacingMS < 0 {
		c.Bulk.PacingMS = 0
	}
	if c.Bulk.TimeoutSeconds <= 0 {
		c.Bulk.TimeoutSeconds = d.Bulk.TimeoutSeconds
	}
}

func (s SecurityConfig) CacheTTLDuration() time.Duration {
	return time.Duration(s.CacheTTL) * time.Second
}

func (s SecurityConfig) BulkCacheTTLDuration() time.Duration {
	return time.Duration(s.BulkCacheTTL) * time.Second
}

func (s SecurityConfig) ClipboardTimeoutDuration() time.Duration {
	return time.Duration(s.ClipboardTimeout) * time.Second
}

func (b BulkConfig) Pacing() time.Duration {
	return time.Duration(b.PacingMS) * time.Millisecond
}

func (b BulkConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}
