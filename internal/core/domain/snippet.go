// Package domain defines the core domain models for snipkit.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling.
package domain

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Snippet constraints.
const (
	MaxNameLength       = 256
	MaxTagLength        = 64
	MaxFilesPerSnippet  = 64
	MinFilesPerSnippet  = 1
	KeyLength           = 26 // lowercase ULID
	TagSeparator        = ","
	tagDisplaySeparator = ", "
)

// File is one named text file inside a snippet.
type File struct {
	// Key identifies the file within its snippet. Generated client-side.
	Key string `json:"key" yaml:"key"`

	// Name is the file name; it may be empty while a draft is being edited.
	Name string `json:"name" yaml:"name"`

	// Value is the file content.
	Value string `json:"value" yaml:"value"`
}

// Snippet is a named, tagged bundle of one or more files.
type Snippet struct {
	// Key uniquely identifies the snippet in the store.
	Key string `json:"key" yaml:"key"`

	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	Files       []File   `json:"files" yaml:"files"`

	// CreateAt is the creation timestamp (Unix milliseconds).
	CreateAt int64 `json:"createAt" yaml:"createAt"`

	// UpdateAt is the last update timestamp (Unix milliseconds).
	UpdateAt int64 `json:"updateAt" yaml:"updateAt"`

	// Copy counts how many times a file of this snippet was copied.
	Copy int `json:"copy" yaml:"copy"`

	// Extra holds document fields snipkit does not model, so that a
	// rewrite of the document keeps them.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// snippetFields lists the JSON names owned by Snippet.
var snippetFields = []string{"key", "name", "description", "tags", "files", "createAt", "updateAt", "copy"}

type snippetAlias Snippet

// MarshalJSON encodes the snippet and re-emits any unknown fields.
func (s Snippet) MarshalJSON() ([]byte, error) {
	alias := snippetAlias(s)
	if alias.Tags == nil {
		alias.Tags = []string{}
	}
	if alias.Files == nil {
		alias.Files = []File{}
	}

	data, err := json.Marshal(alias)
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return data, nil
	}

	merged := make(map[string]json.RawMessage, len(snippetFields)+len(s.Extra))
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if _, known := merged[k]; known {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes the snippet and keeps unknown fields in Extra.
func (s *Snippet) UnmarshalJSON(data []byte) error {
	var alias snippetAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range snippetFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		alias.Extra = raw
	} else {
		alias.Extra = nil
	}

	*s = Snippet(alias)
	return nil
}

// NewSnippet creates a new Snippet with a generated key and timestamps.
// Files without a key get one generated.
func NewSnippet(name string, files ...File) (*Snippet, error) {
	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}

	out := make([]File, 0, len(files))
	for _, f := range files {
		if f.Key == "" {
			fk, err := GenerateKey()
			if err != nil {
				return nil, err
			}
			f.Key = fk
		}
		out = append(out, f)
	}

	now := time.Now().UnixMilli()
	return &Snippet{
		Key:      key,
		Name:     name,
		Tags:     []string{},
		Files:    out,
		CreateAt: now,
		UpdateAt: now,
	}, nil
}

// NewFile creates a File with a freshly generated key.
func NewFile(name, value string) (File, error) {
	key, err := GenerateKey()
	if err != nil {
		return File{}, err
	}
	return File{Key: key, Name: name, Value: value}, nil
}

// GenerateKey generates a new snippet or file key using ULID.
// Format: lowercase ULID, 26 characters.
func GenerateKey() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return strings.ToLower(id.String()), nil
}

// IsValidKey reports whether key looks like a generated key.
// Documents written by other tools may use arbitrary keys; the store
// does not require this format.
func IsValidKey(key string) bool {
	if len(key) != KeyLength {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(key))
	return err == nil
}

// Validate validates the snippet fields against constraints.
// Returns a DomainError with code SK-SNIP-4001 if validation fails.
func (s *Snippet) Validate() error {
	var violations []string

	if s.Key == "" {
		violations = append(violations, "key is required")
	}
	if len(s.Name) > MaxNameLength {
		violations = append(violations, fmt.Sprintf("name exceeds %d characters", MaxNameLength))
	}
	for _, tag := range s.Tags {
		if len(tag) > MaxTagLength {
			violations = append(violations, fmt.Sprintf("tag %q exceeds %d characters", tag, MaxTagLength))
			break
		}
	}

	if len(s.Files) < MinFilesPerSnippet {
		violations = append(violations, "snippet must have at least 1 file")
	}
	if len(s.Files) > MaxFilesPerSnippet {
		violations = append(violations, fmt.Sprintf("snippet exceeds %d files", MaxFilesPerSnippet))
	}

	keys := make(map[string]struct{}, len(s.Files))
	for i, f := range s.Files {
		if f.Key == "" {
			violations = append(violations, fmt.Sprintf("files[%d].key is required", i))
			continue
		}
		if _, dup := keys[f.Key]; dup {
			violations = append(violations, fmt.Sprintf("files[%d].key %q is duplicated", i, f.Key))
		}
		keys[f.Key] = struct{}{}
	}

	if len(violations) > 0 {
		return ErrSnippetValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Clone creates a deep copy of the snippet.
func (s *Snippet) Clone() *Snippet {
	clone := *s
	if s.Tags != nil {
		clone.Tags = slices.Clone(s.Tags)
	}
	clone.Files = CloneFiles(s.Files)
	if s.Extra != nil {
		clone.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			clone.Extra[k] = slices.Clone(v)
		}
	}
	return &clone
}

// File returns the file at index i.
func (s *Snippet) File(i int) (File, error) {
	if i < 0 || i >= len(s.Files) {
		return File{}, ErrFileNotFound.WithDetails(fmt.Sprintf("index %d of %d", i, len(s.Files)))
	}
	return s.Files[i], nil
}

// HasTag reports whether the snippet carries tag.
func (s *Snippet) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// CreateAtTime returns CreateAt as time.Time.
func (s *Snippet) CreateAtTime() time.Time {
	return time.UnixMilli(s.CreateAt)
}

// UpdateAtTime returns UpdateAt as time.Time.
func (s *Snippet) UpdateAtTime() time.Time {
	return time.UnixMilli(s.UpdateAt)
}

// CloneFiles returns a copy of files. A nil slice stays nil.
func CloneFiles(files []File) []File {
	if files == nil {
		return nil
	}
	return slices.Clone(files)
}

// FilesEqual compares two file lists position by position.
func FilesEqual(a, b []File) bool {
	return slices.Equal(a, b)
}

// TagsEqual compares two tag lists; nil and empty are equal.
func TagsEqual(a, b []string) bool {
	return slices.Equal(a, b)
}

// ParseTags splits a comma-separated tag string. Whitespace around each
// tag is trimmed and empty entries are dropped, so "" yields no tags.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, TagSeparator)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		tags = append(tags, p)
	}
	return tags
}

// FormatTags joins tags for display and editing.
func FormatTags(tags []string) string {
	return strings.Join(tags, tagDisplaySeparator)
}
