package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"sa", []string{"save"}},
		{"s", []string{"save", "select", "show"}},
		{"re", []string{"rename"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleter_CoversHelp(t *testing.T) {
	c := NewCompleter()
	for _, doc := range commandHelp {
		if got := c.Complete(doc.name); len(got) == 0 {
			t.Errorf("Complete(%q) returned nothing", doc.name)
		}
	}
}

func TestCompleter_Suggest(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		word string
		want string
	}{
		{"sav", "save"},
		{"sve", "save"},
		{"shw", "show"},
		{"renme", "rename"},
		{"qiut", ""},
		{"xyz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := c.Suggest(tt.word); got != tt.want {
				t.Errorf("Suggest(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestWithinOneEdit(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"save", "save", true},
		{"sava", "save", true},
		{"sve", "save", true},
		{"saves", "save", true},
		{"sv", "save", false},
		{"abcd", "dcba", false},
	}
	for _, tt := range tests {
		if got := withinOneEdit(tt.a, tt.b); got != tt.want {
			t.Errorf("withinOneEdit(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
