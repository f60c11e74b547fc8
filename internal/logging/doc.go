// Package logger provides leveled logging for Secrets.
//
// Console output keeps the CLI's coloured prefixes and is controlled by
// command-line flags:
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors always reach stderr.
//
// # File Output
//
// When file logging is enabled the logger also writes timestamped,
// uncoloured records to a size-rotated file under the data directory
// (lumberjack handles rotation, retention and compression). The file
// receives every record at or above the configured level, independent of
// the console flags, so a debug trace can be collected without cluttering
// the terminal.
//
// # Usage
//
//	log, closer, err := logger.New(logger.Options{Level: "info", Dir: dir})
//	defer closer.Close()
//	log.Infof("Loaded %d passwords", count)
//
// A Logger is a small value and safe to copy; all copies share the same
// file sink, which serializes writes internally.
package logger
