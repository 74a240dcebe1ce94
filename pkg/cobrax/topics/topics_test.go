package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"dry-run.txt":             {Data: []byte("Information about dry-run mode")},
		"snapshots.md":            {Data: []byte("# Snapshots\n\nSnapper details")},
		"nested/option-root.md":   {Data: []byte("The --root flag")},
		"config.txxt":             {Data: []byte("Configuration Guide")},
		"ignore.json":             {Data: []byte("{}")},
	}
}

func TestLoad(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(testFS())
		require.NoError(t, tm.Load())

		assert.Equal(t, []string{"dry-run", "option-root", "snapshots"}, tm.ListTopics())
		topic, ok := tm.GetTopic("snapshots")
		require.True(t, ok)
		assert.Equal(t, "# Snapshots\n\nSnapper details", topic.Content)
		assert.Equal(t, "snapshots.md", topic.FilePath)

		_, ok = tm.GetTopic("config")
		assert.False(t, ok)
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(testFS(), Options{Extensions: []string{".txxt"}})
		require.NoError(t, tm.Load())
		assert.Equal(t, []string{"config"}, tm.ListTopics())
	})
}

func TestGetTopicFlagStyle(t *testing.T) {
	tm := New(testFS())
	require.NoError(t, tm.Load())

	for _, name := range []string{"--root", "-root", "root", "option-root"} {
		topic, ok := tm.GetTopic(name)
		require.True(t, ok, name)
		assert.Equal(t, "option-root", topic.Name)
	}
	_, ok := tm.GetTopic("--missing")
	assert.False(t, ok)
}

func TestPrintList(t *testing.T) {
	tm := New(testFS())
	require.NoError(t, tm.Load())

	var buf bytes.Buffer
	tm.PrintList(&buf, "omarchy-setup")
	out := buf.String()
	assert.Contains(t, out, "General topics:\n  dry-run\n  snapshots\n")
	assert.Contains(t, out, "Option topics:\n  --root\n")
	assert.Contains(t, out, "Use 'omarchy-setup help <topic>'")

	buf.Reset()
	New(fstest.MapFS{}).PrintList(&buf, "x")
	assert.Equal(t, "No help topics available.\n", buf.String())
}

func TestInitializeHelpCommand(t *testing.T) {
	root := &cobra.Command{Use: "omarchy-setup"}
	root.AddCommand(&cobra.Command{Use: "doctor", Short: "Check tools", Run: func(*cobra.Command, []string) {}})

	tm, err := Initialize(root, testFS(), Options{})
	require.NoError(t, err)
	assert.Len(t, tm.ListTopics(), 3)

	run := func(args ...string) string {
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return buf.String()
	}

	assert.Equal(t, "Information about dry-run mode", run("help", "dry-run"))
	assert.Contains(t, run("help", "topics"), "Available help topics:")
	assert.True(t, strings.Contains(run("help", "doctor"), "Check tools"))
}

func TestPlainRendererPassesThrough(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# x", r.Render("# x", ".md"))
}

func TestGlamourRendererIgnoresText(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain *text*", r.Render("plain *text*", ".txt"))
}
