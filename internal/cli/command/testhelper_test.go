package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/infra/clipboard"
	"github.com/yndnr/snipkit-go/internal/storage"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv runs the full CLI against a private home directory.
type testEnv struct {
	t          *testing.T
	home       string
	configPath string
	docPath    string
	clip       *clipboard.Memory
	metadata   map[string]any
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	clip := &clipboard.Memory{}
	return &testEnv{
		t:          t,
		home:       home,
		configPath: filepath.Join(home, ".snipkit", "config.yaml"),
		docPath:    filepath.Join(home, "snippets.json"),
		clip:       clip,
		metadata:   map[string]any{ClipboardKey: clip},
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes snipkit with the test config and document prepended.
func (e *testEnv) run(stdin string, args ...string) result {
	e.t.Helper()
	return e.runRaw(stdin, append([]string{"--config", e.configPath, "--file", e.docPath}, args...)...)
}

// runRaw executes snipkit with only the given arguments.
func (e *testEnv) runRaw(stdin string, args ...string) result {
	e.t.Helper()

	var stdout, stderr syncBuffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(stdin)
	app.Metadata = make(map[string]any, len(e.metadata))
	for k, v := range e.metadata {
		app.Metadata[k] = v
	}

	err := app.RunContext(context.Background(), append([]string{"snipkit"}, args...))
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// seed writes snippets to the test document.
func (e *testEnv) seed(snippets ...*domain.Snippet) {
	e.t.Helper()
	if err := storage.NewJSONFile(e.docPath).Save(context.Background(), snippets); err != nil {
		e.t.Fatalf("seed: %v", err)
	}
}

// load reads the test document back.
func (e *testEnv) load() []*domain.Snippet {
	e.t.Helper()
	snippets, err := storage.NewJSONFile(e.docPath).Load(context.Background())
	if err != nil {
		e.t.Fatalf("load: %v", err)
	}
	return snippets
}

func (e *testEnv) writeConfig(body string) {
	e.t.Helper()
	if err := os.MkdirAll(filepath.Dir(e.configPath), 0700); err != nil {
		e.t.Fatal(err)
	}
	if err := os.WriteFile(e.configPath, []byte(body), 0600); err != nil {
		e.t.Fatal(err)
	}
}

func sampleSnippets() []*domain.Snippet {
	return []*domain.Snippet{
		{
			Key:         "aaaa",
			Name:        "Hello Go",
			Description: "prints hello",
			Tags:        []string{"go", "demo"},
			Files: []domain.File{
				{Key: "f1", Name: "main.go", Value: "package main\n"},
				{Key: "f2", Name: "README.md", Value: "# hello\n"},
			},
			CreateAt: 1000,
			UpdateAt: 1000,
		},
		{
			Key:   "bbbb",
			Name:  "Shell loop",
			Tags:  []string{"sh"},
			Files: []domain.File{{Key: "f3", Name: "loop.sh", Value: "for i in 1 2; do echo $i; done"}},
		},
	}
}

func mustSucceed(t *testing.T, r result) {
	t.Helper()
	if r.err != nil {
		t.Fatalf("run error = %v\nstdout:\n%s\nstderr:\n%s", r.err, r.stdout, r.stderr)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func writeTestFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
}
