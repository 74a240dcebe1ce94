package desktop

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/testutil"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

func TestNormalizeHyprLine(t *testing.T) {
	assert.Equal(t, "bind=SUPER,Return,exec,ghostty", NormalizeHyprLine("bind = SUPER, Return, exec, ghostty"))
	assert.Equal(t, "bind=SUPER,Return,exec,ghostty", NormalizeHyprLine("  bind=SUPER ,Return,  exec,ghostty "))
}

func TestPatchHyprland(t *testing.T) {
	existing := "# user config\nbind=SUPER,Return,exec,ghostty\nmonitor = ,preferred,auto,1\n"
	lines := []string{
		"source = ~/.config/hypr/gpu.conf",
		"monitor = ,preferred,auto,1",
		"bind = SUPER, Return, exec, ghostty",
		"bind = SUPER, B, exec, zen-browser",
		"bind = SUPER, B, exec, zen-browser",
	}

	out := PatchHyprland(existing, lines)
	assert.Equal(t, `# user config
bind=SUPER,Return,exec,ghostty
monitor = ,preferred,auto,1

# >>> omarchy-setup >>>
source = ~/.config/hypr/gpu.conf
bind = SUPER, B, exec, zen-browser
# <<< omarchy-setup <<<
`, out)

	assert.Equal(t, out, PatchHyprland(out, lines))
}

func TestPatchHyprlandDropsEmptyBlock(t *testing.T) {
	content := "bind = SUPER, B, exec, zen-browser\n\n# >>> omarchy-setup >>>\nbind = SUPER, B, exec, zen-browser\n# <<< omarchy-setup <<<\n"
	out := PatchHyprland(content, []string{"bind = SUPER, B, exec, zen-browser"})
	assert.NotContains(t, out, "omarchy-setup")
	assert.Equal(t, 1, strings.Count(out, "zen-browser"))

	assert.Equal(t, "x\n", PatchHyprland("x\n", nil))
}

func TestHyprlandApplyCreatesFile(t *testing.T) {
	env := testutil.NewEnvironment(t)
	h := NewHyprland(textedit.NewEditor(env.FS, false), env.Paths, config.Hyprland{
		ConfigFile: "~/.config/hypr/hyprland.conf",
		Env:        []string{"XCURSOR_SIZE,24"},
		Binds:      []string{"SUPER, Q, killactive"},
	})

	changes, err := h.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, change.Created, changes[0].Action)
	assert.Equal(t, "# >>> omarchy-setup >>>\nenv = XCURSOR_SIZE,24\nbind = SUPER, Q, killactive\n# <<< omarchy-setup <<<\n",
		env.ReadFile(env.Home(".config", "hypr", "hyprland.conf")))

	changes, err = h.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, change.Unchanged, changes[0].Action)
}
