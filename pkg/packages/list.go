package packages

import (
	"strings"

	"github.com/arthur-debert/omarchy-setup/pkg/aur"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// List is packages.list: one package name per line. Blank lines and
// comments are kept as they are so that user annotations survive edits.
type List struct {
	lines []string
}

// ParseList builds a List from file content.
func ParseList(content string) *List {
	return &List{lines: textedit.SplitLines(content)}
}

func entryName(line string) string {
	line = strings.TrimSpace(line)
	if i := strings.Index(line, "#"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	return line
}

// Names returns the package names in list order.
func (l *List) Names() []string {
	var names []string
	seen := map[string]bool{}
	for _, line := range l.lines {
		name := entryName(line)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Contains reports whether name is listed.
func (l *List) Contains(name string) bool {
	for _, line := range l.lines {
		if entryName(line) == name {
			return true
		}
	}
	return false
}

// Add appends name unless it is already present. It reports whether the
// list changed.
func (l *List) Add(name string) (bool, error) {
	if err := aur.ValidateName(name); err != nil {
		return false, err
	}
	if l.Contains(name) {
		return false, nil
	}
	l.lines = append(l.lines, name)
	return true, nil
}

// Remove drops every line listing name. It reports whether the list changed.
func (l *List) Remove(name string) bool {
	kept := l.lines[:0]
	removed := false
	for _, line := range l.lines {
		if entryName(line) == name {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	l.lines = kept
	return removed
}

// String renders the list with a trailing newline.
func (l *List) String() string {
	return textedit.JoinLines(l.lines)
}
