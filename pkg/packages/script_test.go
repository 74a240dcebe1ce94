package packages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderScript(t *testing.T) {
	out, err := RenderScript(ScriptData{
		ListFile: "/home/u/.local/share/omarchy-setup/packages.list",
		Helper:   "yay",
		Flags:    []string{"--needed", "--noconfirm"},
		Packages: []string{"git", "gtk+", "ghostty"},
	})
	require.NoError(t, err)

	expected := `#!/usr/bin/env bash
# Generated by omarchy-setup from /home/u/.local/share/omarchy-setup/packages.list.
# Edit the list with ` + "`omarchy-setup pkg add|remove`" + `, not this file.
set -euo pipefail

packages=(
  git
  gtk+
  ghostty
)

yay -S --needed --noconfirm "${packages[@]}"
`
	assert.Equal(t, expected, string(out))
}

func TestRenderScriptEmpty(t *testing.T) {
	out, err := RenderScript(ScriptData{ListFile: "packages.list", Helper: "yay"})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "set -euo pipefail\n")
	assert.Contains(t, s, "echo 'no packages listed'\n")
	assert.NotContains(t, s, "packages=(")
}
