// Package command provides CLI command definitions for snipkit.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, Before/After hooks
//   - runtime.go: Config, logger, metrics and store shared by commands
//   - snippet.go: init, list, show, create, update, rm, copy, file rm
//   - edit.go: Interactive edit session
//   - watch.go: Re-render the list when the document changes
//   - backup.go: Backup create/list/restore
//   - config.go: Configuration subcommand group
//   - version.go: Build information
//
// Commands follow a consistent pattern of parsing flags,
// calling the snippet service, and formatting output.
//
// Flags go before positional arguments: "snipkit show --file 1 KEY".
package command
