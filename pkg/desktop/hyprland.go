package desktop

import (
	"context"
	"strings"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// HyprlandBlock names the managed block in hyprland.conf.
const HyprlandBlock = "omarchy-setup"

// Hyprland ensures source, bind, env and monitor lines in hyprland.conf.
type Hyprland struct {
	editor *textedit.Editor
	paths  *paths.Paths
	cfg    config.Hyprland
}

// NewHyprland creates a Hyprland patcher.
func NewHyprland(editor *textedit.Editor, p *paths.Paths, cfg config.Hyprland) *Hyprland {
	return &Hyprland{editor: editor, paths: p, cfg: cfg}
}

// ConfigFile returns the resolved hyprland.conf path.
func (h *Hyprland) ConfigFile() string {
	return h.paths.Expand(h.cfg.ConfigFile)
}

// Lines returns every configured line in keyword = value form.
func (h *Hyprland) Lines() []string {
	var lines []string
	add := func(keyword string, values []string) {
		for _, v := range values {
			lines = append(lines, keyword+" = "+strings.TrimSpace(v))
		}
	}
	add("source", h.cfg.Sources)
	add("monitor", h.cfg.Monitors)
	add("env", h.cfg.Env)
	add("bind", h.cfg.Binds)
	return lines
}

// Apply writes the lines missing from the rest of the file into the managed
// block.
func (h *Hyprland) Apply(_ context.Context) ([]change.Change, error) {
	c, err := h.editor.Apply("hyprland", h.ConfigFile(), 0644, func(old []byte, _ bool) ([]byte, error) {
		return []byte(PatchHyprland(string(old), h.Lines())), nil
	})
	if err != nil {
		return nil, err
	}
	return []change.Change{c}, nil
}

// PatchHyprland puts the lines that do not already appear outside the
// managed block into the block. Lines match after whitespace around '=' and
// ',' is normalized.
func PatchHyprland(content string, lines []string) string {
	outside, _ := textedit.RemoveBlock(content, HyprlandBlock)
	present := map[string]bool{}
	for _, l := range textedit.SplitLines(outside) {
		present[NormalizeHyprLine(l)] = true
	}

	var body []string
	seen := map[string]bool{}
	for _, l := range lines {
		key := NormalizeHyprLine(l)
		if present[key] || seen[key] {
			continue
		}
		seen[key] = true
		body = append(body, l)
	}

	if len(body) == 0 {
		if _, ok := textedit.BlockBody(content, HyprlandBlock); ok {
			return outside
		}
		return content
	}
	return textedit.UpsertBlock(content, HyprlandBlock, textedit.JoinLines(body))
}

// NormalizeHyprLine canonicalizes a hyprland.conf line for comparison.
func NormalizeHyprLine(line string) string {
	line = strings.Join(strings.Fields(line), " ")
	for _, sep := range []string{"=", ","} {
		line = strings.ReplaceAll(line, " "+sep, sep)
		line = strings.ReplaceAll(line, sep+" ", sep)
	}
	return line
}
