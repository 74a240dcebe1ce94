package desktop

import (
	"context"
	"sort"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/dotfiles"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// Waybar bar sections modules can be placed in.
var WaybarPositions = []string{"left", "center", "right"}

// Waybar patches config.jsonc.
type Waybar struct {
	editor *textedit.Editor
	paths  *paths.Paths
	cfg    config.Waybar
}

// NewWaybar creates a Waybar patcher.
func NewWaybar(editor *textedit.Editor, p *paths.Paths, cfg config.Waybar) *Waybar {
	return &Waybar{editor: editor, paths: p, cfg: cfg}
}

// ConfigFile returns the resolved config path.
func (w *Waybar) ConfigFile() string {
	return w.paths.Expand(w.cfg.ConfigFile)
}

// Apply places modules and merges their settings.
func (w *Waybar) Apply(_ context.Context) ([]change.Change, error) {
	c, err := w.editor.Apply("waybar", w.ConfigFile(), 0644, func(old []byte, _ bool) ([]byte, error) {
		if len(w.cfg.Modules) == 0 {
			return old, nil
		}
		return PatchWaybar(old, w.cfg.Modules)
	})
	if err != nil {
		return nil, err
	}
	return []change.Change{c}, nil
}

// PatchWaybar ensures each module is listed in modules-<position> and that
// its settings object carries the configured keys. A config whose root is
// an array of bars is patched on the first bar.
func PatchWaybar(data []byte, modules []config.WaybarModule) ([]byte, error) {
	doc, err := dotfiles.ParseJSONC(data)
	if err != nil {
		return nil, err
	}

	base := ""
	if doc.IsArray() {
		if !doc.Has("/0") {
			if err := doc.Patch([]dotfiles.PatchOp{{Op: "add", Path: "/-", Value: map[string]interface{}{}}}); err != nil {
				return nil, err
			}
		}
		base = "/0"
	}

	changed := false
	for _, m := range modules {
		position := m.Position
		if position == "" {
			position = "right"
		}
		if !validPosition(position) {
			return nil, errors.Newf(errors.ErrConfigValid, "waybar module %s has invalid position %q", m.Name, position).
				WithDetail("positions", WaybarPositions)
		}
		ops := placeModule(doc, base, m.Name, position)
		ops = append(ops, mergeModuleSettings(doc, base, m)...)
		if len(ops) == 0 {
			continue
		}
		if err := doc.Patch(ops); err != nil {
			return nil, err
		}
		changed = true
	}

	if !changed {
		return data, nil
	}
	return doc.Bytes(), nil
}

func validPosition(p string) bool {
	for _, v := range WaybarPositions {
		if v == p {
			return true
		}
	}
	return false
}

// placeModule returns the op adding name to the position's array, if needed.
func placeModule(doc *dotfiles.JSONC, base, name, position string) []dotfiles.PatchOp {
	arrayPtr := base + "/" + dotfiles.PointerToken("modules-"+position)

	current, ok := doc.Get(arrayPtr)
	if !ok {
		return []dotfiles.PatchOp{{Op: "add", Path: arrayPtr, Value: []interface{}{name}}}
	}
	if list, isList := current.([]interface{}); isList {
		for _, v := range list {
			if v == name {
				return nil
			}
		}
		return []dotfiles.PatchOp{{Op: "add", Path: arrayPtr + "/-", Value: name}}
	}
	return []dotfiles.PatchOp{{Op: "add", Path: arrayPtr, Value: []interface{}{name}}}
}

func mergeModuleSettings(doc *dotfiles.JSONC, base string, m config.WaybarModule) []dotfiles.PatchOp {
	if len(m.Settings) == 0 {
		return nil
	}
	objPtr := base + "/" + dotfiles.PointerToken(m.Name)
	current, ok := doc.Get(objPtr)
	if _, isObj := current.(map[string]interface{}); !ok || !isObj {
		return []dotfiles.PatchOp{{Op: "add", Path: objPtr, Value: m.Settings}}
	}

	var ops []dotfiles.PatchOp
	for _, key := range sortedKeys(m.Settings) {
		ptr := objPtr + "/" + dotfiles.PointerToken(key)
		if doc.Equal(ptr, m.Settings[key]) {
			continue
		}
		ops = append(ops, dotfiles.PatchOp{Op: "add", Path: ptr, Value: m.Settings[key]})
	}
	return ops
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
