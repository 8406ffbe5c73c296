// Package main provides the entry point for snipkit.
//
// The CLI keeps code snippets in a JSON document (or a Badger database)
// and supports:
//
//   - Listing, showing, creating and deleting snippets
//   - Copying a snippet file to the clipboard
//   - Interactive editing with a staged draft (edit KEY)
//   - Watching the document for changes
//   - Backup and restore
//
// Usage:
//
//	snipkit [global flags] command [flags] [args]
//	snipkit list --tag go
//	snipkit -o json show KEY
//	snipkit edit KEY
package main
