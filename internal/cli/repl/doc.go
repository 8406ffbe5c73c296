// Package repl provides the interactive edit session for the snipkit CLI.
//
// This package implements the Read-Eval-Print Loop behind "snipkit edit":
//
//   - repl.go: Main loop and command dispatch onto a service.EditSession
//   - editor.go: Multi-line input and the external $EDITOR round trip
//   - completer.go: Command name completion and suggestions
//   - history.go: Command history persistence
//
// Draft edits stay in memory until "save"; "discard" and "quit" drop them.
package repl
