// Package store wraps a pass password store on disk.
//
// Entries are addressed by slash-separated paths relative to the store
// root ("email/work" for <root>/email/work.gpg). Every path is validated
// before a subprocess is started; an invalid path yields ErrInvalidPath
// and no command runs.
//
// # Content Cache
//
// Decrypted content is kept in memory by ContentCache. An entry is served
// only while it is younger than the TTL and the .gpg file's modification
// time still equals the one recorded when it was cached; otherwise it is
// dropped and the caller decrypts again. The cache is bounded and evicts
// the oldest entries first. Nothing is ever written to disk.
//
// # Bulk Decryption
//
// GetBulkContents decrypts many entries at once without overwhelming
// gpg-agent, which serializes private-key operations:
//
//  1. Cached entries are answered immediately.
//  2. One signing round-trip warms the agent so any passphrase prompt
//     happens before the decrypt burst.
//  3. The first few uncached entries are decrypted one at a time with a
//     short pause between them.
//  4. The rest go through a small worker pool (two workers by default,
//     whatever the caller asks for).
//
// Each entry gets its own BulkResult; one failure never aborts the batch.
package store
