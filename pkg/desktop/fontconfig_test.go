package desktop

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

func TestPatchFontconfigNewFile(t *testing.T) {
	out, err := PatchFontconfig(nil, []FamilyPreference{{Generic: "monospace", Families: []string{"JetBrainsMono Nerd Font"}}})
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0"?>`))
	assert.Contains(t, s, `<!DOCTYPE fontconfig SYSTEM "urn:fontconfig:fonts.dtd">`)
	assert.Contains(t, s, "<family>monospace</family>")
	assert.Contains(t, s, "<prefer>\n      <family>JetBrainsMono Nerd Font</family>\n    </prefer>")

	again, err := PatchFontconfig(out, []FamilyPreference{{Generic: "monospace", Families: []string{"JetBrainsMono Nerd Font"}}})
	require.NoError(t, err)
	assert.Equal(t, s, string(again))
}

func TestPatchFontconfigReplacesPreference(t *testing.T) {
	input := []byte(`<?xml version="1.0"?>
<fontconfig>
  <dir>~/.fonts</dir>
  <alias>
    <family>monospace</family>
    <prefer><family>DejaVu Sans Mono</family></prefer>
  </alias>
</fontconfig>
`)
	out, err := PatchFontconfig(input, []FamilyPreference{
		{Generic: "monospace", Families: []string{"JetBrainsMono Nerd Font", "Noto Sans Mono"}},
		{Generic: "sans-serif", Families: []string{"Inter"}},
	})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "<dir>~/.fonts</dir>")
	assert.NotContains(t, s, "DejaVu")
	assert.Equal(t, 1, strings.Count(s, "<family>monospace</family>"))
	assert.Contains(t, s, "<family>Inter</family>")
	assert.Less(t, strings.Index(s, "JetBrainsMono"), strings.Index(s, "Noto Sans Mono"))
}

func TestPatchFontconfigRejectsOtherXML(t *testing.T) {
	_, err := PatchFontconfig([]byte("<html></html>"), []FamilyPreference{{Generic: "serif", Families: []string{"Noto Serif"}}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileParse))

	_, err = PatchFontconfig([]byte("<fontconfig"), []FamilyPreference{{Generic: "serif", Families: []string{"Noto Serif"}}})
	assert.Error(t, err)
}
