// Package app wires the store, sidecars, audit log and logger into one
// Context that commands pass around explicitly.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tobagin/secrets/internal/audit"
	"github.com/tobagin/secrets/internal/configs"
	"github.com/tobagin/secrets/internal/detect"
	"github.com/tobagin/secrets/internal/gpg"
	logger "github.com/tobagin/secrets/internal/logging"
	"github.com/tobagin/secrets/internal/metadata"
	"github.com/tobagin/secrets/internal/store"
	"github.com/tobagin/secrets/internal/utils"
)

// Options configures Open. Zero values resolve from the environment.
type Options struct {
	// StoreDir overrides PASSWORD_STORE_DIR.
	StoreDir string
	Verbose  bool
	Debug    bool

	// Settings replaces environment resolution, mainly for tests.
	Settings *configs.Settings
	// Runner replaces the os/exec runner, mainly for tests.
	Runner    gpg.Runner
	Clipboard store.Clipboard
}

// Context holds everything an operation needs. It replaces process-wide
// singletons; create one with Open and release it with Close.
type Context struct {
	Settings *configs.Settings
	Config   *configs.Config
	// ConfigErr is the error from loading the config file, if any. The
	// defaults are in effect when it is set.
	ConfigErr error

	Logger   logger.Logger
	Env      gpg.Environment
	GPG      *gpg.Client
	Store    *store.Store
	Metadata *metadata.Store
	Detect   *detect.Cache
	Audit    *audit.Log

	logCloser io.Closer
}

// Open resolves settings and configuration and builds the Context.
func Open(opts Options) (*Context, error) {
	settings := opts.Settings
	if settings == nil {
		var err error
		settings, err = configs.ResolveSettings()
		if err != nil {
			return nil, err
		}
	}
	if opts.StoreDir != "" {
		dir, err := filepath.Abs(opts.StoreDir)
		if err != nil {
			return nil, fmt.Errorf("invalid store directory: %w", err)
		}
		settings.StoreDir = dir
	}

	cfg, cfgErr := configs.Load(settings.ConfigPath)

	logOpts := logger.Options{
		Verbose:    opts.Verbose,
		Debug:      opts.Debug || settings.Debug,
		Level:      settings.EffectiveLogLevel(cfg.Logging),
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	}
	if cfg.Logging.FileEnabled {
		logOpts.Dir = settings.LogDir
	}
	log, closer, err := logger.New(logOpts)
	if err != nil {
		// An unusable level or log directory should not stop the app.
		log.Warnf("Logging setup: %v", err)
	}
	if cfgErr != nil {
		log.Warnf("Using default configuration: %v", cfgErr)
	}

	env := gpg.DetectEnvironment(settings.StoreDir, utils.TTYName(), settings.Flatpak)
	runner := opts.Runner
	if runner == nil {
		runner = gpg.ExecRunner{Env: env.Apply(os.Environ())}
	}
	log.Debugf("Password store: %s", settings.StoreDir)
	log.Debugf("GNUPGHOME: %s, pinentry: %s", env.GNUPGHome, env.Pinentry)

	st := store.New(store.Options{
		Dir:    settings.StoreDir,
		Runner: runner,
		Cache: store.CacheOptions{
			Disabled:       !cfg.Security.CacheEnabled,
			TTL:            cfg.Security.CacheTTLDuration(),
			BulkTTL:        cfg.Security.BulkCacheTTLDuration(),
			MaxEntries:     cfg.Security.CacheMaxEntries,
			BulkMaxEntries: cfg.Security.BulkCacheMaxEntries,
		},
		Bulk: store.BulkOptions{
			WarmupCount:   cfg.Bulk.WarmupCount,
			MaxConcurrent: cfg.Bulk.MaxConcurrent,
			Pacing:        cfg.Bulk.Pacing(),
			Timeout:       cfg.Bulk.Timeout(),
		},
		Clipboard: opts.Clipboard,
		Logger:    log,
	})

	auditLog := audit.New(settings.AuditPath, cfg.Compliance.AuditEnabled)
	if cfg.Compliance.AuditEnabled && cfg.Compliance.AuditRetentionDays > 0 {
		retention := time.Duration(cfg.Compliance.AuditRetentionDays) * 24 * time.Hour
		if n, err := auditLog.Prune(retention); err != nil {
			log.Warnf("Could not prune audit log: %v", err)
		} else if n > 0 {
			log.Debugf("Pruned %d audit entries", n)
		}
	}

	return &Context{
		Settings:  settings,
		Config:    cfg,
		ConfigErr: cfgErr,
		Logger:    log,
		Env:       env,
		GPG:       gpg.NewClient(runner),
		Store:     st,
		Metadata:  metadata.Open(settings.StoreDir, log),
		Detect:    detect.Open(settings.StoreDir, log),
		Audit:     auditLog,
		logCloser: closer,
	}, nil
}

// Close flushes the detection cache and releases the log file.
func (c *Context) Close() error {
	var errs []error
	if c.Detect != nil {
		if err := c.Detect.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.logCloser != nil {
		if err := c.logCloser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
