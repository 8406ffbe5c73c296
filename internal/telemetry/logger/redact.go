// Package logger provides structured logging for snipkit.
package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Keys whose values are secrets and are fully redacted.
var sensitiveKeyPatterns = []string{
	"passphrase",
	"password",
	"secret",
}

// Keys whose values are file contents and are shortened to a preview.
var contentKeys = []string{
	"value",
	"content",
}

const (
	redactedValue = "***REDACTED***"

	// previewLength is the number of runes of file content kept in logs.
	previewLength = 32
)

func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if isContentKey(a.Key) {
			return slog.String(a.Key, Preview(strVal))
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// Preview shortens file content for logging.
// Format: first 32 runes + "...(N bytes)".
func Preview(value string) string {
	runes := []rune(value)
	if len(runes) <= previewLength {
		return value
	}
	return fmt.Sprintf("%s...(%d bytes)", string(runes[:previewLength]), len(value))
}

// IsSensitiveKey checks if a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

func isContentKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, k := range contentKeys {
		if keyLower == k {
			return true
		}
	}
	return false
}
