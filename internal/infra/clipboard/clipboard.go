// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available,
// e.g. on a headless Linux box without xclip, xsel, or wl-copy.
var ErrUnsupported = errors.New("clipboard: no clipboard utility available")

// System writes to the operating system clipboard.
type System struct{}

// New returns the system clipboard.
func New() System {
	return System{}
}

// Available reports whether a clipboard utility was found.
func (System) Available() bool {
	return !clipboard.Unsupported
}

// WriteAll replaces the clipboard contents with text.
func (s System) WriteAll(text string) error {
	if !s.Available() {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// ReadAll returns the clipboard contents.
func (s System) ReadAll() (string, error) {
	if !s.Available() {
		return "", ErrUnsupported
	}
	return clipboard.ReadAll()
}

// Memory is an in-process clipboard, used when the system clipboard is
// unavailable and in tests.
type Memory struct {
	text string
}

// WriteAll stores text.
func (m *Memory) WriteAll(text string) error {
	m.text = text
	return nil
}

// ReadAll returns the stored text.
func (m *Memory) ReadAll() (string, error) {
	return m.text, nil
}
