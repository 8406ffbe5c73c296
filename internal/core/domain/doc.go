// Package domain defines the core domain models for snipkit.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Snippet: a named, tagged bundle of one or more files
//   - File: one named text file inside a snippet
//   - Keys: ULID-based key generation for snippets and files
//   - Errors: coded domain error definitions
//
// The JSON encoding of Snippet is the on-disk document format and
// preserves fields written by other tools.
package domain
