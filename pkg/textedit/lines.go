package textedit

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	blockBegin = "# >>> %s >>>"
	blockEnd   = "# <<< %s <<<"
)

// SplitLines splits content into lines without a trailing empty element.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// JoinLines joins lines and terminates the result with a newline.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// HasLine reports whether content contains line, ignoring surrounding whitespace.
func HasLine(content, line string) bool {
	want := strings.TrimSpace(line)
	for _, l := range SplitLines(content) {
		if strings.TrimSpace(l) == want {
			return true
		}
	}
	return false
}

// EnsureLines appends every line that is not already present. It returns the
// new content and the lines that were added.
func EnsureLines(content string, lines []string) (string, []string) {
	existing := SplitLines(content)
	var added []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if HasLine(JoinLines(existing), line) {
			continue
		}
		existing = append(existing, line)
		added = append(added, line)
	}
	if len(added) == 0 {
		return content, nil
	}
	return JoinLines(existing), added
}

// RemoveLines drops every line for which match returns true.
func RemoveLines(content string, match func(line string) bool) (string, int) {
	var kept []string
	removed := 0
	for _, l := range SplitLines(content) {
		if match(l) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	if removed == 0 {
		return content, 0
	}
	return JoinLines(kept), removed
}

// UpsertBlock places body between the begin/end markers for name. An existing
// block is replaced in place; otherwise the block is appended, separated from
// preceding content by a blank line.
func UpsertBlock(content, name, body string) string {
	begin := fmt.Sprintf(blockBegin, name)
	end := fmt.Sprintf(blockEnd, name)

	block := []string{begin}
	block = append(block, SplitLines(body)...)
	block = append(block, end)

	lines := SplitLines(content)
	start, stop := findBlock(lines, begin, end)
	if start >= 0 {
		out := append([]string{}, lines[:start]...)
		out = append(out, block...)
		out = append(out, lines[stop+1:]...)
		return JoinLines(out)
	}

	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
		lines = append(lines, "")
	}
	return JoinLines(append(lines, block...))
}

// RemoveBlock deletes the managed block for name, if any.
func RemoveBlock(content, name string) (string, bool) {
	lines := SplitLines(content)
	start, stop := findBlock(lines, fmt.Sprintf(blockBegin, name), fmt.Sprintf(blockEnd, name))
	if start < 0 {
		return content, false
	}
	out := append([]string{}, lines[:start]...)
	out = append(out, lines[stop+1:]...)
	return JoinLines(out), true
}

// BlockBody returns the content of the managed block for name.
func BlockBody(content, name string) (string, bool) {
	lines := SplitLines(content)
	start, stop := findBlock(lines, fmt.Sprintf(blockBegin, name), fmt.Sprintf(blockEnd, name))
	if start < 0 {
		return "", false
	}
	return JoinLines(lines[start+1 : stop]), true
}

// findBlock pairs an end marker with the closest begin marker above it, so
// a stray begin line never swallows the user content that follows it.
func findBlock(lines []string, begin, end string) (int, int) {
	start := -1
	for i, l := range lines {
		switch strings.TrimSpace(l) {
		case begin:
			start = i
		case end:
			if start >= 0 {
				return start, i
			}
		}
	}
	return -1, -1
}

// Assignment is a single KEY=value pair.
type Assignment struct {
	Key   string
	Value string
}

// AssignmentStyle controls how SetAssignments renders a line.
type AssignmentStyle struct {
	// Separator between key and value, e.g. "=" or " = ".
	Separator string
	// Quote wraps values in double quotes, as shell variable files expect.
	Quote bool
}

// ShellVars renders KEY="value", the format of snapper configs.
var ShellVars = AssignmentStyle{Separator: "=", Quote: true}

// SpacedPairs renders key = value, the format of ghostty and hyprland.
var SpacedPairs = AssignmentStyle{Separator: " = "}

func (s AssignmentStyle) render(a Assignment) string {
	v := a.Value
	if s.Quote {
		v = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return a.Key + s.Separator + v
}

// SetAssignments replaces the first uncommented assignment of each key in
// place and appends keys that are missing, in the given order. Comments and
// unrelated lines are left untouched.
func SetAssignments(content string, values []Assignment, style AssignmentStyle) string {
	lines := SplitLines(content)
	for _, a := range values {
		re := assignmentPattern(a.Key)
		rendered := style.render(a)
		found := false
		for i, l := range lines {
			if re.MatchString(l) {
				lines[i] = rendered
				found = true
				break
			}
		}
		if !found {
			lines = append(lines, rendered)
		}
	}
	out := JoinLines(lines)
	if out == content || (content != "" && strings.TrimSuffix(out, "\n") == content) {
		return content
	}
	return out
}

// LookupAssignment returns the raw value of the first uncommented assignment of key.
func LookupAssignment(content, key string) (string, bool) {
	re := assignmentPattern(key)
	for _, l := range SplitLines(content) {
		if re.MatchString(l) {
			_, v, _ := strings.Cut(l, "=")
			return strings.Trim(strings.TrimSpace(v), `"`), true
		}
	}
	return "", false
}

func assignmentPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(key) + `\s*=`)
}
