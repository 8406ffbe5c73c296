// Package config provides CLI configuration for snipkit.
//
// This package defines the configuration read by the snipkit command:
//
//   - spec.go: Config struct (~/.snipkit/config.yaml)
//   - default.go: Default values
//   - loader.go: Loading and merging (flags > env > file > defaults)
//   - verify.go: Validation
//   - sanitize.go: Secret masking for display
//
// Environment variables use the SNIPKIT_ prefix with "__" between
// sections, for example SNIPKIT_STORAGE__PATH.
package config
