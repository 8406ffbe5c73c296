// Package highlight maps file names to language modes and renders
// syntax-highlighted file content for the terminal.
//
// Both use chroma's lexer registry, so the set of recognized languages
// is whatever chroma ships.
package highlight

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// NullMode is returned for file names no lexer claims.
const NullMode = "null"

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "monokai"

// Resolver looks up language modes by file name.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() Resolver {
	return Resolver{}
}

// ModeFor returns the language mode for fileName, or NullMode.
// The mode is the lexer's primary alias, e.g. "go" or "python".
func (Resolver) ModeFor(fileName string) string {
	lexer := match(fileName)
	if lexer == nil {
		return NullMode
	}
	cfg := lexer.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}

func match(fileName string) chroma.Lexer {
	if fileName == "" {
		return nil
	}
	if l := lexers.Match(fileName); l != nil {
		return l
	}
	// Retry on the base name, e.g. for names like "dir/Makefile".
	return lexers.Match(filepath.Base(fileName))
}

// Highlighter renders source code with ANSI colours.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewHighlighter creates a highlighter using the named chroma style.
// Unknown themes fall back to DefaultTheme.
func NewHighlighter(theme string) *Highlighter {
	style := styles.Get(theme)
	if style == nil || (style == styles.Fallback && theme != DefaultTheme) {
		style = styles.Get(DefaultTheme)
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &Highlighter{style: style, formatter: formatter}
}

// Highlight writes source to w, coloured by the lexer matching fileName.
// Unrecognized files are written through the plain-text lexer.
func (h *Highlighter) Highlight(w io.Writer, fileName, source string) error {
	lexer := match(fileName)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return err
	}
	return h.formatter.Format(w, h.style, it)
}

// Themes lists the available style names.
func Themes() []string {
	return styles.Names()
}
