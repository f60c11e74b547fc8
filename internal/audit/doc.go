// Package audit provides the compliance trail for password store
// operations.
//
// Every operation that reads or changes an entry (show, copy, insert,
// delete, move, git sync, ...) is recorded with who ran it, on which path,
// and whether it succeeded. Entry contents are never recorded.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	$XDG_DATA_HOME/io.github.tobagin.secrets/audit.jsonl
//
// Each entry contains:
//   - A random ID and a timestamp (RFC3339 with microseconds, UTC)
//   - The local user name
//   - Operation name, entry path and, for moves, the target path
//   - The outcome and, on failure, the user-facing error message
//
// # Usage
//
//	log := audit.New(settings.AuditPath, cfg.Compliance.AuditEnabled)
//	entry := log.Entry("delete")
//	entry.Path = "web/github"
//	log.Record(entry, err)
//
// # Failure Handling
//
// Audit logging is best-effort. If writing fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Retention
//
// Prune rewrites the log without entries older than the retention period.
// Malformed lines are dropped by ParseEntries, so partial writes never
// block reading.
package audit
