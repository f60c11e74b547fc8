// Package errors provides typed error values for the Secrets application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. Store
// operations never panic for expected failures; they return one of these
// values, usually wrapped with the subprocess output for context.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Tool errors: pass or gpg missing, command failure or timeout
//   - Store errors: invalid paths, missing entries, uninitialized store
//   - Feature errors: clipboard, TOTP and git availability
//   - Metadata and config errors: malformed sidecar or settings data
//
// # User Messages
//
// UserMessage translates an error into the short sentence a front-end
// shows in a notification:
//
//	if err := store.DeletePassword(ctx, path); err != nil {
//	    notify(errors.UserMessage(err)) // "Invalid password path."
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: %s", errors.ErrDecryptFailed, stderr)
package errors
