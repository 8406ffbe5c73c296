package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yndnr/snipkit-go/internal/core/domain"
)

const (
	documentFileMode = 0o600
	documentDirMode  = 0o700
)

// JSONFile stores the snippet sequence as a single JSON array file.
//
// Writes go to a temp file in the same directory which is synced and
// renamed over the document, so readers never observe a torn file. When
// the path is a symlink the link target is replaced, never the link.
type JSONFile struct {
	path string
}

// NewJSONFile creates a JSON file document at path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Load reads and decodes the file.
func (f *JSONFile) Load(ctx context.Context) ([]*domain.Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, classifyIOError(err)
	}
	return decodeSnippets(data)
}

// Save overwrites the file with the compact encoding of snippets.
func (f *JSONFile) Save(ctx context.Context, snippets []*domain.Snippet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeSnippets(snippets)
	if err != nil {
		return err
	}
	if err := writeAtomic(f.path, data); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Init creates the parent directory and an empty array if the file is missing.
func (f *JSONFile) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return domain.ErrStorageError.WithCause(err)
	}

	target, err := resolveTarget(f.path)
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(target), documentDirMode); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	if err := writeAtomic(f.path, []byte("[]")); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Location returns the file path.
func (f *JSONFile) Location() string {
	return f.path
}

// Close is a no-op; the file is only open during Load and Save.
func (f *JSONFile) Close() error {
	return nil
}

// writeAtomic writes data to a temp file next to dest and renames it into place.
// A symlinked dest is resolved first so the link survives and its target
// is updated. An existing file keeps its permissions.
func writeAtomic(dest string, data []byte) error {
	target, err := resolveTarget(dest)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dest, err)
	}
	mode := os.FileMode(documentFileMode)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}
	dir := filepath.Dir(target)

	tmp, err := os.CreateTemp(dir, ".snipkit-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := osReplace(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", target, err)
	}

	// Best effort: the data itself is already durable.
	_ = syncDir(dir)
	return nil
}

// maxLinkHops bounds symlink chains followed by resolveTarget.
const maxLinkHops = 32

// resolveTarget returns the file a write to path must replace. Links are
// followed even when their final target does not exist yet.
func resolveTarget(path string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	// Missing file or dangling link: walk the chain by hand.
	for range maxLinkHops {
		info, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", err
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return path, nil
		}
		link, err := os.Readlink(path)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(path), link)
		}
		path = link
	}
	return "", fmt.Errorf("too many links")
}
