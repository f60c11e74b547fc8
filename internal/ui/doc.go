// Package ui provides semantic text formatting for CLI output.
//
// This package defines formatters for different types of content (entry
// paths, commands, errors, etc.) that render appropriately based on
// terminal capabilities. When colors are available, content is colorized.
// When NO_COLOR is set or the terminal doesn't support colors, text-based
// decorations (backticks, quotes) are used instead.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("secrets init <gpg-id>")  // Commands
//	ui.Path.Sprint("email/work")              // Entry and folder paths
//	ui.Success.Sprint("✓")                     // Success indicators
//	ui.Error.Sprint("✗")                       // Error indicators
//	ui.Highlight.Sprint("alice")              // User values
//	ui.Muted.Sprint("cached")                 // De-emphasized text
//
// Swatch renders a metadata colour such as "#3584e4" as a coloured block
// so folder and password colours can be previewed in a terminal.
package ui
