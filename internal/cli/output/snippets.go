package output

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yndnr/snipkit-go/internal/core/domain"
)

// Columns selects the optional snippet list columns.
type Columns struct {
	CreateTime bool
	UpdateTime bool
	CopyCount  bool
}

// SnippetTable builds the snippet list table.
// Wide adds the description and file names.
func SnippetTable(snippets []*domain.Snippet, cols Columns, wide bool, now time.Time) *Table {
	table := &Table{Headers: []string{"KEY", "NAME", "TAGS", "FILES"}}
	if cols.CopyCount {
		table.Headers = append(table.Headers, "COPIES")
	}
	if cols.CreateTime {
		table.Headers = append(table.Headers, "CREATED")
	}
	if cols.UpdateTime {
		table.Headers = append(table.Headers, "UPDATED")
	}
	if wide {
		table.Headers = append(table.Headers, "DESCRIPTION", "FILE NAMES")
	}

	for _, s := range snippets {
		row := []string{
			s.Key,
			orDash(s.Name),
			orDash(domain.FormatTags(s.Tags)),
			strconv.Itoa(len(s.Files)),
		}
		if cols.CopyCount {
			row = append(row, strconv.Itoa(s.Copy))
		}
		if cols.CreateTime {
			row = append(row, RelativeMillis(s.CreateAt, now))
		}
		if cols.UpdateTime {
			row = append(row, RelativeMillis(s.UpdateAt, now))
		}
		if wide {
			names := make([]string, len(s.Files))
			for i, f := range s.Files {
				names[i] = f.Name
			}
			row = append(row, orDash(firstLine(s.Description)), orDash(strings.Join(names, ", ")))
		}
		table.AddRow(row...)
	}
	return table
}

// HighlightFunc writes source to w with syntax colouring for fileName.
type HighlightFunc func(w io.Writer, fileName, source string) error

// DetailOptions controls RenderSnippet.
type DetailOptions struct {
	Columns Columns
	Now     time.Time

	// File selects one file; negative renders all of them.
	File int

	LineNumbers bool

	// Plain prints raw file content only, for piping.
	Plain bool

	// Highlight colours file content. Nil prints it as is.
	Highlight HighlightFunc

	// Mode names the language mode shown next to each file name.
	Mode func(fileName string) string
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	metaStyle  = lipgloss.NewStyle().Faint(true)
	fileStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

// RenderSnippet writes a human-readable view of s.
func RenderSnippet(w io.Writer, s *domain.Snippet, opts DetailOptions) error {
	files := s.Files
	offset := 0
	if opts.File >= 0 {
		f, err := s.File(opts.File)
		if err != nil {
			return err
		}
		files = []domain.File{f}
		offset = opts.File
	}

	if opts.Plain {
		for _, f := range files {
			if _, err := io.WriteString(w, f.Value); err != nil {
				return err
			}
			if !strings.HasSuffix(f.Value, "\n") {
				fmt.Fprintln(w)
			}
		}
		return nil
	}

	fmt.Fprintln(w, titleStyle.Render(orDefault(s.Name, "(untitled)")))
	if s.Description != "" {
		fmt.Fprintln(w, s.Description)
	}
	if meta := metaLine(s, opts); meta != "" {
		fmt.Fprintln(w, metaStyle.Render(meta))
	}

	for i, f := range files {
		header := fmt.Sprintf("[%d] %s", offset+i, orDefault(f.Name, "(unnamed)"))
		if opts.Mode != nil {
			header += " (" + opts.Mode(f.Name) + ")"
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, fileStyle.Render(header))
		if err := renderContent(w, f, opts); err != nil {
			return err
		}
	}
	return nil
}

func metaLine(s *domain.Snippet, opts DetailOptions) string {
	var parts []string
	parts = append(parts, "key "+s.Key)
	if len(s.Tags) > 0 {
		parts = append(parts, "tags "+domain.FormatTags(s.Tags))
	}
	if opts.Columns.CreateTime {
		parts = append(parts, "created "+RelativeMillis(s.CreateAt, opts.Now))
	}
	if opts.Columns.UpdateTime {
		parts = append(parts, "updated "+RelativeMillis(s.UpdateAt, opts.Now))
	}
	if opts.Columns.CopyCount {
		parts = append(parts, fmt.Sprintf("copied %d times", s.Copy))
	}
	return strings.Join(parts, " · ")
}

func renderContent(w io.Writer, f domain.File, opts DetailOptions) error {
	var buf bytes.Buffer
	if opts.Highlight != nil {
		if err := opts.Highlight(&buf, f.Name, f.Value); err != nil {
			return err
		}
	} else {
		buf.WriteString(f.Value)
	}

	body := strings.TrimSuffix(buf.String(), "\n")
	if !opts.LineNumbers {
		_, err := fmt.Fprintln(w, body)
		return err
	}

	lines := strings.Split(body, "\n")
	width := len(strconv.Itoa(len(lines)))
	for i, line := range lines {
		num := metaStyle.Render(fmt.Sprintf("%*d", width, i+1))
		if _, err := fmt.Fprintf(w, "%s  %s\n", num, line); err != nil {
			return err
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

func orDash(s string) string {
	return orDefault(s, "-")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
