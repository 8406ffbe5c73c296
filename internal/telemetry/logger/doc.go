// Package logger provides structured logging for snipkit.
//
// It wraps log/slog:
//
//   - logger.go: handler configuration and the Logger interface
//   - context.go: context-aware logging with snippet key and command
//   - redact.go: masking of passphrases and truncation of file contents
//
// The CLI logs to stderr in text format at warn level unless
// --verbose is given.
package logger
