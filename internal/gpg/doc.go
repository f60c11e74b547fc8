// Package gpg runs the external gpg and pass programs.
//
// Every invocation goes through a Runner so tests can substitute a fake.
// ExecRunner injects the constructed GnuPG environment (GNUPGHOME, GPG_TTY,
// PINENTRY_PROGRAM, PASSWORD_STORE_DIR) and enforces a per-command timeout.
// Failures map to the sentinel errors in internal/errors: a missing binary
// becomes ErrPassNotFound or ErrGPGNotFound, a non-zero exit becomes
// ErrCommandFailed with the trimmed stderr, and an expired deadline becomes
// ErrCommandTimeout.
//
// Client wraps the gpg commands the application needs directly: version
// and key listings for health checks, and WarmAgent, which performs one
// signing round-trip so gpg-agent caches the passphrase before a burst of
// decryptions.
package gpg
