// Package workflows provides high-level orchestration for Secrets commands.
//
// Workflows coordinate the password store, the metadata and detection
// sidecars and the audit log to implement complete user-facing features.
// Each workflow handles a single operation's business logic, independent
// of CLI concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Validating paths and prerequisites
//   - Performing the store operation
//   - Keeping metadata and detection records in step with the store
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - List, Show, Copy, OTP: read entries
//   - Insert, Delete, Move: change entries
//   - Warm: bulk-decrypt entries into the cache
//   - Search: fuzzy name search and optional content search
//   - Git, Init, Doctor, Log: store maintenance
//   - SetFolderMeta, SetPasswordMeta, SetFavicon: appearance
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package. Use
// errors.Is() to check for specific conditions, or errors.UserMessage()
// for the text to show:
//
//	result, err := workflows.Delete(ctx, a, workflows.DeleteOptions{Path: p})
//	if errors.Is(err, kerrors.ErrInvalidPath) {
//	    // "Invalid password path."
//	}
//
// # Context Usage
//
// Every workflow takes a context.Context and the *app.Context holding the
// store, sidecars and logger. Cancelling the context stops pending
// subprocesses.
package workflows
