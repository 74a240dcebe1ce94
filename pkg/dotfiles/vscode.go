package dotfiles

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// VSCode installs extensions and merges settings.json.
type VSCode struct {
	editor *textedit.Editor
	runner runner.Runner
	paths  *paths.Paths
	cfg    config.Editor
	logger zerolog.Logger
}

// NewVSCode creates a VS Code configurator.
func NewVSCode(editor *textedit.Editor, r runner.Runner, p *paths.Paths, cfg config.Editor) *VSCode {
	return &VSCode{editor: editor, runner: r, paths: p, cfg: cfg, logger: logging.GetLogger("editor")}
}

// Apply installs missing extensions, then merges settings.
func (v *VSCode) Apply(ctx context.Context) ([]change.Change, error) {
	changes, err := v.InstallExtensions(ctx)
	if err != nil {
		return changes, err
	}
	c, err := v.MergeSettings()
	if err != nil {
		return changes, err
	}
	return append(changes, c), nil
}

// InstalledExtensions lists extension IDs reported by the editor, lowercased.
func (v *VSCode) InstalledExtensions(ctx context.Context) (map[string]bool, error) {
	res, err := v.runner.Run(ctx, runner.Query(v.cfg.Command, "--list-extensions"))
	if err != nil {
		return nil, err
	}
	installed := map[string]bool{}
	for _, id := range res.Lines() {
		installed[strings.ToLower(id)] = true
	}
	return installed, nil
}

// InstallExtensions installs configured extensions that are not installed.
// Extension IDs are case-insensitive.
func (v *VSCode) InstallExtensions(ctx context.Context) ([]change.Change, error) {
	if len(v.cfg.Extensions) == 0 {
		return nil, nil
	}
	if err := runner.RequireTools(v.runner, v.cfg.Command); err != nil {
		return nil, err
	}

	installed, err := v.InstalledExtensions(ctx)
	if err != nil {
		return nil, err
	}

	var changes []change.Change
	for _, id := range v.cfg.Extensions {
		c := change.Change{Component: "editor", Target: id}
		if installed[strings.ToLower(id)] {
			c.Action = change.Unchanged
			changes = append(changes, c)
			continue
		}
		if _, err := v.runner.Run(ctx, runner.New(v.cfg.Command, "--install-extension", id)); err != nil {
			c.Action = change.Failed
			return append(changes, c), err
		}
		installed[strings.ToLower(id)] = true
		c.Action = change.Executed
		c.Detail = "extension installed"
		changes = append(changes, c)
	}
	return changes, nil
}

// SettingsFile returns the resolved settings.json path.
func (v *VSCode) SettingsFile() string {
	return v.paths.Expand(v.cfg.SettingsFile)
}

// MergeSettings sets each configured top-level key whose value differs.
// Other keys and comments are kept.
func (v *VSCode) MergeSettings() (change.Change, error) {
	var keys []string
	c, err := v.editor.Apply("editor", v.SettingsFile(), 0644, func(old []byte, _ bool) ([]byte, error) {
		if len(v.cfg.Settings) == 0 {
			return old, nil
		}
		doc, err := ParseJSONC(old)
		if err != nil {
			return nil, err
		}
		var ops []PatchOp
		for _, s := range v.cfg.Settings {
			ptr := "/" + PointerToken(s.Key)
			if doc.Equal(ptr, s.Value) {
				continue
			}
			ops = append(ops, PatchOp{Op: "add", Path: ptr, Value: s.Value})
			keys = append(keys, s.Key)
		}
		if len(ops) == 0 {
			return old, nil
		}
		if err := doc.Patch(ops); err != nil {
			return nil, err
		}
		return doc.Bytes(), nil
	})
	if err != nil {
		return c, err
	}
	if len(keys) > 0 {
		c.Detail = fmt.Sprintf("set %s", strings.Join(keys, ", "))
	}
	return c, nil
}
