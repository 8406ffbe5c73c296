package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yndnr/snipkit-go/internal/cli/output"
	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/core/service"
)

type commandDoc struct {
	name  string
	usage string
	help  string
}

var commandHelp = []commandDoc{
	{"files", "files", "list the files, * marks the selected one"},
	{"select", "select N", "select file N"},
	{"show", "show", "print the selected file"},
	{"edit", "edit", "enter edit mode"},
	{"add", "add [NAME]", "add an empty file"},
	{"rename", "rename N NAME", "rename file N"},
	{"rm", "rm N", "remove file N (writes immediately outside edit mode)"},
	{"name", "name TEXT", "set the snippet name"},
	{"tags", "tags A, B", "set the comma-separated tags"},
	{"desc", "desc [TEXT]", "set the description, without TEXT end input with a lone '.'"},
	{"value", "value", "replace the selected file, end input with a lone '.'"},
	{"open", "open", "edit the selected file in $EDITOR"},
	{"save", "save", "save the draft and leave edit mode"},
	{"discard", "discard", "drop the draft and leave edit mode"},
	{"history", "history", "show recent commands"},
	{"help", "help", "show this help"},
	{"quit", "quit", "leave, discarding unsaved edits"},
}

// REPL drives an EditSession from line-oriented input.
type REPL struct {
	session   *service.EditSession
	input     *bufio.Reader
	output    io.Writer
	completer *Completer
	history   *History

	editor    []string
	runEditor RunFunc
	highlight output.HighlightFunc
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = bufio.NewReader(in)
		r.output = out
	}
}

// WithHistory sets the command history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithEditor sets the external editor command line and how it is run.
// A nil run uses the terminal.
func WithEditor(argv []string, run RunFunc) Option {
	return func(r *REPL) {
		if len(argv) > 0 {
			r.editor = argv
		}
		if run != nil {
			r.runEditor = run
		}
	}
}

// WithHighlight colours "show" output.
func WithHighlight(h output.HighlightFunc) Option {
	return func(r *REPL) {
		r.highlight = h
	}
}

// New creates a REPL over session.
func New(session *service.EditSession, opts ...Option) *REPL {
	r := &REPL{
		session:   session,
		input:     bufio.NewReader(os.Stdin),
		output:    os.Stdout,
		completer: NewCompleter(),
		history:   NewHistory(""),
		editor:    EditorCommand(""),
		runEditor: runEditor,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// errQuit ends Run.
var errQuit = errors.New("quit")

// Run starts the REPL loop. It returns nil on quit or end of input.
func (r *REPL) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			r.leave()
			return err
		}

		fmt.Fprint(r.output, r.prompt())

		line, err := r.input.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF

		line = strings.TrimSpace(line)
		if line != "" {
			r.history.Add(line)
			if err := r.execute(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintf(r.output, "Error: %v\n", err)
			}
		}

		if eof {
			fmt.Fprintln(r.output)
			r.leave()
			return nil
		}
	}
}

func (r *REPL) prompt() string {
	name := r.session.Snippet().Name
	if d, ok := r.session.Draft(); ok {
		name = d.Name
	}
	if name == "" {
		name = "untitled"
	}
	if r.session.Editing() {
		return fmt.Sprintf("snipkit(%s)*> ", name)
	}
	return fmt.Sprintf("snipkit(%s)> ", name)
}

// leave discards a pending draft.
func (r *REPL) leave() {
	if r.session.Editing() {
		r.session.Discard()
		fmt.Fprintln(r.output, "Unsaved changes discarded.")
	}
}

func (r *REPL) execute(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help", "?":
		r.printHelp()
	case "quit", "exit":
		r.leave()
		return errQuit
	case "files", "ls":
		r.printFiles()
	case "select":
		n, err := parseIndex(rest)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.output, "Selected file %d.\n", r.session.Select(n))
	case "show":
		return r.show()
	case "edit":
		if err := r.session.Begin(); err != nil {
			return err
		}
		fmt.Fprintln(r.output, "Editing. Use 'save' or 'discard' when done.")
	case "add":
		return r.add(rest)
	case "rename":
		idx, name, _ := strings.Cut(rest, " ")
		n, err := parseIndex(idx)
		if err != nil {
			return err
		}
		return r.session.RenameFile(n, strings.TrimSpace(name))
	case "rm":
		n, err := parseIndex(rest)
		if err != nil {
			return err
		}
		removed, err := r.session.RemoveFile(ctx, n)
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintf(r.output, "Removed file %d.\n", n)
		}
	case "name":
		return r.session.SetName(rest)
	case "tags":
		return r.session.SetTags(rest)
	case "desc":
		if rest == "" {
			return r.description()
		}
		return r.session.SetDescription(rest)
	case "value":
		return r.value()
	case "open":
		return r.open(ctx)
	case "save":
		changed, err := r.session.Save(ctx)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintln(r.output, "Saved.")
		} else {
			fmt.Fprintln(r.output, "No changes.")
		}
	case "discard":
		if !r.session.Editing() {
			return domain.ErrNotEditing
		}
		r.session.Discard()
		fmt.Fprintln(r.output, "Draft discarded.")
	case "history":
		for i := min(r.history.Len(), 20) - 1; i >= 0; i-- {
			fmt.Fprintf(r.output, "  %s\n", r.history.Get(i))
		}
	default:
		if s := r.completer.Suggest(cmd); s != "" {
			return fmt.Errorf("unknown command %q, did you mean %q?", cmd, s)
		}
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
	return nil
}

func (r *REPL) printHelp() {
	for _, c := range commandHelp {
		fmt.Fprintf(r.output, "  %-14s %s\n", c.usage, c.help)
	}
}

func (r *REPL) printFiles() {
	table := &output.Table{Headers: []string{"", "#", "NAME", "MODE", "LINES"}}
	for i, f := range r.session.Files() {
		marker := ""
		if i == r.session.Selected() {
			marker = "*"
		}
		name := f.Name
		if name == "" {
			name = "(unnamed)"
		}
		table.AddRow(marker, strconv.Itoa(i), name, r.session.ModeOf(f.Name), strconv.Itoa(lineCount(f.Value)))
	}
	_ = table.Render(r.output)
}

func (r *REPL) show() error {
	f, mode := r.session.Current()
	name := f.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(r.output, "[%d] %s (%s)\n", r.session.Selected(), name, mode)
	if r.highlight != nil {
		if err := r.highlight(r.output, f.Name, f.Value); err != nil {
			return err
		}
		fmt.Fprintln(r.output)
		return nil
	}
	fmt.Fprintln(r.output, strings.TrimSuffix(f.Value, "\n"))
	return nil
}

func (r *REPL) add(name string) error {
	_, idx, err := r.session.AddFile()
	if err != nil {
		return err
	}
	if name != "" {
		if err := r.session.RenameFile(idx, name); err != nil {
			return err
		}
	}
	fmt.Fprintf(r.output, "Added file %d.\n", idx)
	return nil
}

func (r *REPL) value() error {
	if !r.session.Editing() {
		return domain.ErrNotEditing
	}
	fmt.Fprintf(r.output, "Enter content, end with a line containing only %q:\n", ValueTerminator)
	v, err := readValue(r.input)
	if err != nil {
		return err
	}
	if !r.session.SetContent(v) {
		return domain.ErrInvalidArgument.WithDetails("no file selected")
	}
	return nil
}

func (r *REPL) description() error {
	if !r.session.Editing() {
		return domain.ErrNotEditing
	}
	fmt.Fprintf(r.output, "Enter description, end with a line containing only %q:\n", ValueTerminator)
	v, err := readValue(r.input)
	if err != nil {
		return err
	}
	return r.session.SetDescription(strings.TrimSuffix(v, "\n"))
}

func (r *REPL) open(ctx context.Context) error {
	if !r.session.Editing() {
		return domain.ErrNotEditing
	}
	f, _ := r.session.Current()
	v, err := editExternally(ctx, r.runEditor, r.editor, f.Name, f.Value)
	if err != nil {
		return err
	}
	if !r.session.SetContent(v) {
		return domain.ErrInvalidArgument.WithDetails("no file selected")
	}
	return nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("file index %q is not a number", s))
	}
	return n, nil
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}
