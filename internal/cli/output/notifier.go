package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Notifier prints short info and warning toasts.
// It satisfies service.Notifier.
type Notifier struct {
	mu   sync.Mutex
	w    io.Writer
	info lipgloss.Style
	warn lipgloss.Style
}

// NewNotifier creates a notifier writing to w. Colours are only emitted
// when w is a terminal.
func NewNotifier(w io.Writer) *Notifier {
	r := lipgloss.NewRenderer(w)
	return &Notifier{
		w:    w,
		info: r.NewStyle().Foreground(lipgloss.Color("2")),
		warn: r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	}
}

// Info prints an informational message.
func (n *Notifier) Info(msg string) {
	n.print(n.info, "✓ "+msg)
}

// Warn prints a warning.
func (n *Notifier) Warn(msg string) {
	n.print(n.warn, "! "+msg)
}

func (n *Notifier) print(style lipgloss.Style, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, style.Render(msg))
}
