package desktop

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// Ghostty patches the ghostty key = value config.
type Ghostty struct {
	editor *textedit.Editor
	paths  *paths.Paths
	cfg    config.Ghostty
}

// NewGhostty creates a Ghostty patcher.
func NewGhostty(editor *textedit.Editor, p *paths.Paths, cfg config.Ghostty) *Ghostty {
	return &Ghostty{editor: editor, paths: p, cfg: cfg}
}

// ConfigFile returns the resolved config path.
func (g *Ghostty) ConfigFile() string {
	return g.paths.Expand(g.cfg.ConfigFile)
}

// Apply replaces scalar keys in place and appends repeatable entries whose
// exact value is missing.
func (g *Ghostty) Apply(_ context.Context) ([]change.Change, error) {
	c, err := g.editor.Apply("ghostty", g.ConfigFile(), 0644, func(old []byte, _ bool) ([]byte, error) {
		return []byte(PatchGhostty(string(old), g.cfg.Settings, g.cfg.Repeatable)), nil
	})
	if err != nil {
		return nil, err
	}
	return []change.Change{c}, nil
}

// PatchGhostty applies settings to a ghostty config. Keys listed in
// repeatable may appear several times and are never replaced.
func PatchGhostty(content string, settings []config.Setting, repeatable []string) string {
	isRepeatable := map[string]bool{}
	for _, k := range repeatable {
		isRepeatable[k] = true
	}

	var scalars []textedit.Assignment
	var extra []string
	for _, s := range settings {
		value := fmt.Sprint(s.Value)
		if !isRepeatable[s.Key] {
			scalars = append(scalars, textedit.Assignment{Key: s.Key, Value: value})
			continue
		}
		if !hasGhosttyEntry(content, s.Key, value) {
			extra = append(extra, s.Key+" = "+value)
		}
	}

	out := textedit.SetAssignments(content, scalars, textedit.SpacedPairs)
	if len(extra) > 0 {
		out, _ = textedit.EnsureLines(out, extra)
	}
	return out
}

func hasGhosttyEntry(content, key, value string) bool {
	for _, l := range textedit.SplitLines(content) {
		k, v, ok := strings.Cut(l, "=")
		if ok && strings.TrimSpace(k) == key && strings.TrimSpace(v) == value {
			return true
		}
	}
	return false
}
