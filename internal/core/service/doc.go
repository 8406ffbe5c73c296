// Package service provides the snippet use cases for snipkit.
//
// Services orchestrate operations on domain models and define the
// interfaces they need from storage and the user interface, so both can
// be replaced in tests.
//
// This package contains:
//
//   - SnippetService: list, get, create, delete, and copy-to-clipboard
//   - EditSession: a draft-based editing workflow committed on save
//
// Every operation is synchronous and blocks on the underlying store.
package service
