package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/yndnr/snipkit-go/internal/core/domain"
)

// Document is a persisted, ordered sequence of snippets.
//
// Load and Save always operate on the whole sequence.
type Document interface {
	// Load reads and decodes the full sequence.
	// Returns ErrStorageUnavailable if the document does not exist and
	// ErrStorageCorrupt if it cannot be decoded.
	Load(ctx context.Context) ([]*domain.Snippet, error)

	// Save replaces the full sequence.
	Save(ctx context.Context, snippets []*domain.Snippet) error

	// Init creates an empty document if none exists.
	// An existing document is left untouched.
	Init(ctx context.Context) error

	// Location describes where the document lives (a path or directory).
	Location() string

	// Close releases backend resources.
	Close() error
}

// FindByKey returns the index of the first snippet whose Key equals key,
// or -1 if there is none.
func FindByKey(snippets []*domain.Snippet, key string) int {
	for i, s := range snippets {
		if s != nil && s.Key == key {
			return i
		}
	}
	return -1
}

// decodeSnippets parses a JSON array of snippet records.
// A JSON null decodes to an empty sequence.
func decodeSnippets(data []byte) ([]*domain.Snippet, error) {
	var snippets []*domain.Snippet
	if err := json.Unmarshal(data, &snippets); err != nil {
		return nil, domain.ErrStorageCorrupt.WithCause(err)
	}
	if snippets == nil {
		snippets = []*domain.Snippet{}
	}
	for i, s := range snippets {
		if s == nil {
			return nil, domain.ErrStorageCorrupt.WithDetails(fmt.Sprintf("record %d is null", i))
		}
	}
	return snippets, nil
}

// encodeSnippets serializes the sequence as a compact JSON array.
func encodeSnippets(snippets []*domain.Snippet) ([]byte, error) {
	if snippets == nil {
		snippets = []*domain.Snippet{}
	}
	data, err := json.Marshal(snippets)
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return data, nil
}

// classifyIOError maps a filesystem error to a storage domain error.
func classifyIOError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	return domain.ErrStorageError.WithCause(err)
}
