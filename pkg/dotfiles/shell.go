package dotfiles

import (
	"context"
	"fmt"

	"al.essio.dev/pkg/shellescape"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// BlockName names the managed block in rc files.
const BlockName = "omarchy-setup"

// Shell maintains the managed block and extra lines in the shell rc file.
type Shell struct {
	editor *textedit.Editor
	paths  *paths.Paths
	cfg    config.Shell
}

// NewShell creates a Shell configurator.
func NewShell(editor *textedit.Editor, p *paths.Paths, cfg config.Shell) *Shell {
	return &Shell{editor: editor, paths: p, cfg: cfg}
}

// RCFile returns the resolved rc file path.
func (s *Shell) RCFile() string {
	return s.paths.Expand(s.cfg.RCFile)
}

// BlockBody renders exports, aliases and source lines, sorted by name so
// reruns produce identical content.
func (s *Shell) BlockBody() string {
	var lines []string
	for _, k := range config.SortedKeys(s.cfg.Env) {
		lines = append(lines, fmt.Sprintf("export %s=%s", k, shellescape.Quote(s.cfg.Env[k])))
	}
	for _, k := range config.SortedKeys(s.cfg.Aliases) {
		lines = append(lines, fmt.Sprintf("alias %s=%s", k, shellescape.Quote(s.cfg.Aliases[k])))
	}
	for _, src := range s.cfg.Sources {
		lines = append(lines, "source "+shellescape.Quote(s.paths.Expand(src)))
	}
	return textedit.JoinLines(lines)
}

// Apply writes the managed block, then ensures the standalone lines.
func (s *Shell) Apply(_ context.Context) ([]change.Change, error) {
	rc := s.RCFile()
	var changes []change.Change

	c, err := s.editor.UpsertBlock("shell", rc, BlockName, s.BlockBody())
	if err != nil {
		return changes, err
	}
	changes = append(changes, c)

	if len(s.cfg.Lines) == 0 {
		return changes, nil
	}
	c, err = s.editor.EnsureLines("shell", rc, s.cfg.Lines)
	if err != nil {
		return changes, err
	}
	return append(changes, c), nil
}
