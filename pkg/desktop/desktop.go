package desktop

import (
	"context"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// Patcher is implemented by every desktop target.
type Patcher interface {
	Apply(ctx context.Context) ([]change.Change, error)
}

// Targets lists the desktop targets in the order "all" applies them.
var Targets = []string{"hyprland", "waybar", "ghostty", "fonts"}

// NewPatcher returns the patcher for target, or nil for an unknown name.
func NewPatcher(target string, editor *textedit.Editor, p *paths.Paths, cfg *config.Config) Patcher {
	switch target {
	case "hyprland":
		return NewHyprland(editor, p, cfg.Hyprland)
	case "waybar":
		return NewWaybar(editor, p, cfg.Waybar)
	case "ghostty":
		return NewGhostty(editor, p, cfg.Ghostty)
	case "fonts":
		return NewFonts(editor, p, cfg.Fonts)
	}
	return nil
}

// All applies every target and stops at the first error.
type All struct {
	editor *textedit.Editor
	paths  *paths.Paths
	cfg    *config.Config
}

// NewAll creates the combined desktop patcher.
func NewAll(editor *textedit.Editor, p *paths.Paths, cfg *config.Config) *All {
	return &All{editor: editor, paths: p, cfg: cfg}
}

// Apply runs each target in order.
func (a *All) Apply(ctx context.Context) ([]change.Change, error) {
	var changes []change.Change
	for _, target := range Targets {
		c, err := NewPatcher(target, a.editor, a.paths, a.cfg).Apply(ctx)
		changes = append(changes, c...)
		if err != nil {
			return changes, err
		}
	}
	return changes, nil
}
