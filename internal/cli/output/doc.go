// Package output provides output formatting for the snipkit CLI.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Table rendering driven by `table` struct tags
//   - json.go, yaml.go: Machine-readable output for scripting
//   - snippets.go: Snippet list and detail views
//   - notifier.go: Info and warning toasts on stderr
//
// Table columns tagged "wide" only appear with --wide. Columns tagged
// "time" hold Unix milliseconds and render as relative times; "bytes"
// columns render as human sizes.
package output
