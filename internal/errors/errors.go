package errors

import "errors"

// Tool errors indicate a required external program is unavailable.
var (
	// ErrPassNotFound indicates the pass executable is not on PATH.
	ErrPassNotFound = errors.New("pass command not found")

	// ErrGPGNotFound indicates the gpg executable is not on PATH.
	ErrGPGNotFound = errors.New("gpg command not found")

	// ErrCommandFailed indicates an external command exited unsuccessfully.
	ErrCommandFailed = errors.New("command failed")

	// ErrCommandTimeout indicates an external command did not finish in time.
	ErrCommandTimeout = errors.New("command timed out")
)

// Store errors indicate issues with the password store layout or addressing.
var (
	// ErrInvalidPath indicates an entry path failed validation.
	ErrInvalidPath = errors.New("invalid password path")

	// ErrNoSecretKey indicates no usable GPG secret key is available.
	ErrNoSecretKey = errors.New("no usable GPG secret key found")

	// ErrStoreNotInitialized indicates the store has no .gpg-id file.
	ErrStoreNotInitialized = errors.New("password store has not been initialized")

	// ErrEntryNotFound indicates no .gpg file exists for the path.
	ErrEntryNotFound = errors.New("password entry not found")

	// ErrEntryExists indicates an insert or move would overwrite an entry.
	ErrEntryExists = errors.New("password entry already exists")

	// ErrFolderNotFound indicates the folder does not exist in the store.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrDecryptFailed indicates pass show could not decrypt the entry.
	ErrDecryptFailed = errors.New("failed to decrypt password entry")

	// ErrEmptyPassword indicates the decrypted entry has no password line.
	ErrEmptyPassword = errors.New("password entry is empty")
)

// Feature errors indicate an optional feature cannot serve the request.
var (
	// ErrClipboardUnavailable indicates the system clipboard could not be written.
	ErrClipboardUnavailable = errors.New("clipboard is unavailable")

	// ErrNoTOTP indicates the entry carries no otpauth URI.
	ErrNoTOTP = errors.New("entry has no TOTP secret")

	// ErrInvalidTOTP indicates the otpauth URI could not be parsed.
	ErrInvalidTOTP = errors.New("invalid TOTP URI")

	// ErrGitNotInitialized indicates the store is not a git repository.
	ErrGitNotInitialized = errors.New("password store is not a git repository")

	// ErrUnsupportedGitOperation indicates a git subcommand outside the allowed set.
	ErrUnsupportedGitOperation = errors.New("unsupported git operation")
)

// Metadata and config errors indicate malformed sidecar or settings data.
var (
	// ErrInvalidColor indicates a colour is not a #rrggbb hex string.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidFavicon indicates favicon data is not valid base64.
	ErrInvalidFavicon = errors.New("invalid favicon data")

	// ErrInvalidConfig indicates the config file could not be parsed.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrInvalidDateFormat indicates a date filter is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrNoAuditLog indicates the audit log has not been written yet.
	ErrNoAuditLog = errors.New("audit log not found")
)

// userMessages maps sentinels to the one-line text shown to end users.
var userMessages = []struct {
	err error
	msg string
}{
	{ErrInvalidPath, "Invalid password path."},
	{ErrPassNotFound, "The pass command is not installed."},
	{ErrGPGNotFound, "The gpg command is not installed."},
	{ErrStoreNotInitialized, "Password store is not initialized."},
	{ErrNoSecretKey, "No usable GPG key was found."},
	{ErrEntryNotFound, "Password not found."},
	{ErrEntryExists, "A password with that name already exists."},
	{ErrFolderNotFound, "Folder not found."},
	{ErrCommandTimeout, "The operation timed out."},
	{ErrEmptyPassword, "Password entry is empty."},
	{ErrClipboardUnavailable, "Could not access the clipboard."},
	{ErrNoTOTP, "This password has no TOTP secret."},
	{ErrInvalidTOTP, "The TOTP secret is invalid."},
	{ErrGitNotInitialized, "Git is not set up for this password store."},
	{ErrInvalidColor, "Invalid color."},
	{ErrInvalidFavicon, "Invalid favicon data."},
}

// UserMessage returns the user-facing text for err. Errors without a
// dedicated message fall back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}
