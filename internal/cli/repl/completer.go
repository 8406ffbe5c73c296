package repl

import (
	"sort"
	"strings"
)

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer for the edit session commands.
func NewCompleter() *Completer {
	cmds := make([]string, 0, len(commandHelp))
	for _, c := range commandHelp {
		cmds = append(cmds, c.name)
	}
	cmds = append(cmds, "exit")
	sort.Strings(cmds)
	return &Completer{commands: cmds}
}

// Complete returns the commands starting with prefix, sorted.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Suggest returns the closest command to an unknown word, or "" when
// nothing is close. A unique prefix match wins, then edit distance 1.
func (c *Completer) Suggest(word string) string {
	if word == "" {
		return ""
	}
	if matches := c.Complete(word); len(matches) == 1 {
		return matches[0]
	}
	for _, cmd := range c.commands {
		if withinOneEdit(word, cmd) {
			return cmd
		}
	}
	return ""
}

// withinOneEdit reports whether a and b differ by at most one
// insertion, deletion or substitution.
func withinOneEdit(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(b)-len(a) > 1 {
		return false
	}
	i, j, edits := 0, 0, 0
	for i < len(a) && j < len(b) {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		edits++
		if edits > 1 {
			return false
		}
		if len(a) == len(b) {
			i++
		}
		j++
	}
	return edits+(len(b)-j)+(len(a)-i) <= 1
}
