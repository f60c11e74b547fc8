// Package configs manages settings and user configuration for Secrets.
//
// # Settings
//
// Settings are resolved once at startup from the environment:
//
//   - PASSWORD_STORE_DIR: store location (default ~/.password-store)
//   - XDG_CONFIG_HOME / XDG_DATA_HOME: config, log and audit locations
//   - FLATPAK_ID: sandboxed install, changes pinentry lookup
//   - SECRETS_PRODUCTION_MODE / SECRETS_DEBUG_MODE: default log verbosity
//   - SECRETS_LOG_LEVEL: explicit log level override
//   - SECRETS_RESOURCE_PATH: location of bundled resources
//
// ResolveSettings returns a value; nothing is stored in package globals.
//
// # Configuration
//
// User configuration is stored as JSON at
// $XDG_CONFIG_HOME/io.github.tobagin.secrets/config.json with the sections
// ui, security, search, git, compliance, logging and bulk. Load seeds viper
// with the defaults, merges the file over them, applies environment
// overrides and decodes the result. A missing file yields defaults. A
// corrupt file also yields defaults, together with ErrInvalidConfig so the
// caller can log a warning.
package configs
