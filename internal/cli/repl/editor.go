package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ValueTerminator ends multi-line input for the "value" command.
const ValueTerminator = "."

// readValue reads lines until a lone "." or EOF.
// A line of ".." stands for a literal ".".
func readValue(r *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		eof := err == io.EOF
		if eof && line == "" {
			break
		}

		line = strings.TrimRight(line, "\r\n")
		if line == ValueTerminator {
			break
		}
		if line == ValueTerminator+ValueTerminator {
			line = ValueTerminator
		}
		lines = append(lines, line)
		if eof {
			break
		}
	}
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// EditorCommand resolves the external editor: the configured command,
// then $VISUAL, then $EDITOR, then vi.
func EditorCommand(configured string) []string {
	for _, c := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if fields := strings.Fields(c); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// RunFunc starts an external editor on path and waits for it.
type RunFunc func(ctx context.Context, argv []string, path string) error

// runEditor runs argv with path appended, attached to the terminal.
func runEditor(ctx context.Context, argv []string, path string) error {
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// editExternally writes value to a temp file named like fileName, runs
// the editor and returns the new content.
func editExternally(ctx context.Context, run RunFunc, argv []string, fileName, value string) (string, error) {
	dir, err := os.MkdirTemp("", "snipkit-edit-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	base := filepath.Base(fileName)
	if fileName == "" || base == "." || base == string(filepath.Separator) {
		base = "snippet.txt"
	}
	path := filepath.Join(dir, base)
	if err := os.WriteFile(path, []byte(value), 0600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := run(ctx, argv, path); err != nil {
		return "", fmt.Errorf("run editor %s: %w", argv[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	return string(data), nil
}
