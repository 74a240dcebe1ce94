package packages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPreservesCommentsAndOrder(t *testing.T) {
	l := ParseList("# base\ngit\n\n# desktop\nghostty # terminal\nwaybar\n")

	assert.Equal(t, []string{"git", "ghostty", "waybar"}, l.Names())
	assert.True(t, l.Contains("ghostty"))
	assert.False(t, l.Contains("terminal"))

	changed, err := l.Add("zen-browser-bin")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = l.Add("git")
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, "# base\ngit\n\n# desktop\nghostty # terminal\nwaybar\nzen-browser-bin\n", l.String())
}

func TestListAddRejectsInvalidNames(t *testing.T) {
	l := ParseList("")
	_, err := l.Add("-Syu")
	assert.Error(t, err)
	assert.Empty(t, l.Names())
}

func TestListRemove(t *testing.T) {
	l := ParseList("git\nghostty # terminal\nwaybar\n")

	assert.True(t, l.Remove("ghostty"))
	assert.False(t, l.Remove("ghostty"))
	assert.Equal(t, "git\nwaybar\n", l.String())
}

func TestListDuplicatesCollapseInNames(t *testing.T) {
	l := ParseList("git\ngit\n")
	assert.Equal(t, []string{"git"}, l.Names())
}
