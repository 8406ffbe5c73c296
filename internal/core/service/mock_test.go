package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"slices"
	"testing"

	"github.com/yndnr/snipkit-go/internal/core/domain"
)

// mockRepo keeps the document as encoded JSON, so tests can compare
// bytes before and after an operation.
type mockRepo struct {
	doc    []byte
	writes int
	now    int64

	updateErr error
}

func newMockRepo(snippets ...*domain.Snippet) *mockRepo {
	m := &mockRepo{now: 1000}
	m.store(snippets)
	m.writes = 0
	return m
}

func (m *mockRepo) load() []*domain.Snippet {
	var out []*domain.Snippet
	if err := json.Unmarshal(m.doc, &out); err != nil {
		panic(err)
	}
	return out
}

func (m *mockRepo) store(snippets []*domain.Snippet) {
	data, err := json.Marshal(snippets)
	if err != nil {
		panic(err)
	}
	m.doc = data
	m.writes++
}

func (m *mockRepo) FetchAll(ctx context.Context) ([]*domain.Snippet, error) {
	return m.load(), nil
}

func (m *mockRepo) Update(ctx context.Context, s *domain.Snippet) (int, error) {
	if m.updateErr != nil {
		return -1, m.updateErr
	}
	all := m.load()
	idx := slices.IndexFunc(all, func(x *domain.Snippet) bool { return x.Key == s.Key })
	if idx < 0 {
		return -1, domain.ErrSnippetNotFound.WithDetails(s.Key)
	}
	m.now++
	s.UpdateAt = m.now
	all[idx] = s.Clone()
	m.store(all)
	return idx, nil
}

func (m *mockRepo) Create(ctx context.Context, s *domain.Snippet) (int, error) {
	all := m.load()
	if slices.ContainsFunc(all, func(x *domain.Snippet) bool { return x.Key == s.Key }) {
		return -1, domain.ErrSnippetConflict
	}
	all = append(all, s.Clone())
	m.store(all)
	return len(all) - 1, nil
}

func (m *mockRepo) Delete(ctx context.Context, key string) (int, error) {
	all := m.load()
	idx := slices.IndexFunc(all, func(x *domain.Snippet) bool { return x.Key == key })
	if idx < 0 {
		return -1, domain.ErrSnippetNotFound.WithDetails(key)
	}
	m.store(slices.Delete(all, idx, idx+1))
	return idx, nil
}

// mockNotifier records notifications.
type mockNotifier struct {
	infos []string
	warns []string
}

func (n *mockNotifier) Info(msg string) { n.infos = append(n.infos, msg) }
func (n *mockNotifier) Warn(msg string) { n.warns = append(n.warns, msg) }

// mockClipboard records the last write.
type mockClipboard struct {
	text string
	err  error
}

func (c *mockClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

var errBoom = errors.New("boom")

func testSnippet(key string, files ...domain.File) *domain.Snippet {
	return &domain.Snippet{
		Key:         key,
		Name:        "name-" + key,
		Description: "desc",
		Tags:        []string{"go", "cli"},
		Files:       files,
		CreateAt:    10,
		UpdateAt:    100,
	}
}

func twoFiles() []domain.File {
	return []domain.File{
		{Key: "f1", Name: "main.go", Value: "package main"},
		{Key: "f2", Name: "README.md", Value: "# readme"},
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return data
}
