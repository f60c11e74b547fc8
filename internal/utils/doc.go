// Package utils provides shared utility functions for the Secrets application.
//
// This package contains general-purpose helpers used across multiple packages.
// Functions are organized into logical groups:
//
// # Filesystem Utilities
//
//   - WriteFileAtomic: write-temp, fsync, rename; used for every JSON sidecar
//   - FormatPaths: formats entry paths for human-readable output
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//   - EnvBool: parses boolean environment flags
//
// # I/O Utilities
//
//   - ReadStdin: reads piped entry content from standard input
//
// # Terminal Utilities
//
//   - ReadSecret: prompts for a password without echoing input
//   - TTYName: resolves the controlling terminal for GPG_TTY
package utils
