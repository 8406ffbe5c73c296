// Package logger provides structured logging for snipkit.
package logger

import "context"

type contextKey string

const (
	loggerKey     contextKey = "snipkit.logger"
	snippetKeyKey contextKey = "snipkit.snippet_key"
	commandKey    contextKey = "snipkit.command"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithSnippetKey records the snippet being operated on.
func WithSnippetKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, snippetKeyKey, key)
}

// SnippetKeyFromContext extracts the snippet key from context.
func SnippetKeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(snippetKeyKey).(string); ok {
		return key
	}
	return ""
}

// WithCommand records the CLI command name.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// CommandFromContext extracts the CLI command name from context.
func CommandFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(commandKey).(string); ok {
		return name
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger
// with the command and snippet key from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if cmd := CommandFromContext(ctx); cmd != "" {
		l = l.With("command", cmd)
	}
	if key := SnippetKeyFromContext(ctx); key != "" {
		l = l.With("snippet_key", key)
	}

	return l
}
