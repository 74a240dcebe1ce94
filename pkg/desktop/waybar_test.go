package desktop

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/dotfiles"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

func TestPatchWaybar(t *testing.T) {
	input := []byte(`{
  // bar layout
  "layer": "top",
  "modules-left": ["hyprland/workspaces"],
  "modules-right": ["clock"],
  "clock": {"format": "{:%H:%M}"}
}
`)
	modules := []config.WaybarModule{
		{Name: "clock", Position: "right", Settings: map[string]interface{}{"format": "{:%a %H:%M}", "tooltip": false}},
		{Name: "battery", Position: "right"},
		{Name: "custom/omarchy", Position: "center", Settings: map[string]interface{}{"exec": "omarchy-menu"}},
	}

	out, err := PatchWaybar(input, modules)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "// bar layout")

	doc, err := dotfiles.ParseJSONC(out)
	require.NoError(t, err)

	right, _ := doc.Get("/modules-right")
	assert.Equal(t, []interface{}{"clock", "battery"}, right)
	center, _ := doc.Get("/modules-center")
	assert.Equal(t, []interface{}{"custom/omarchy"}, center)
	left, _ := doc.Get("/modules-left")
	assert.Equal(t, []interface{}{"hyprland/workspaces"}, left)

	clock, _ := doc.Get("/clock")
	assert.Equal(t, map[string]interface{}{"format": "{:%a %H:%M}", "tooltip": false}, clock)
	assert.True(t, doc.Equal("/custom~1omarchy/exec", "omarchy-menu"))

	again, err := PatchWaybar(out, modules)
	require.NoError(t, err)
	assert.Equal(t, s, string(again))
}

func TestPatchWaybarArrayRoot(t *testing.T) {
	out, err := PatchWaybar([]byte(`[{"modules-left": []}, {"name": "second"}]`), []config.WaybarModule{{Name: "tray", Position: "left"}})
	require.NoError(t, err)

	doc, err := dotfiles.ParseJSONC(out)
	require.NoError(t, err)
	left, _ := doc.Get("/0/modules-left")
	assert.Equal(t, []interface{}{"tray"}, left)
	assert.False(t, doc.Has("/1/modules-left"))
}

func TestPatchWaybarInvalidPosition(t *testing.T) {
	_, err := PatchWaybar(nil, []config.WaybarModule{{Name: "tray", Position: "top"}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestPatchWaybarEmptyFile(t *testing.T) {
	out, err := PatchWaybar(nil, []config.WaybarModule{{Name: "tray"}})
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), `"modules-right"`))
}
