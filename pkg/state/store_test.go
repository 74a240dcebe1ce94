package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/omarchy-setup/pkg/filesystem"
)

func TestStore(t *testing.T) {
	fsys := filesystem.NewMemory()
	s := NewStore(fsys, "/state", false)

	_, found, err := s.Get(KeyGPUMode)
	require.NoError(t, err)
	assert.False(t, found)

	changed, err := s.Set(KeyGPUMode, "hybrid")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Set(KeyGPUMode, "hybrid")
	require.NoError(t, err)
	assert.False(t, changed)

	value, found, err := s.Get(KeyGPUMode)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hybrid", value)

	require.NoError(t, s.Delete(KeyGPUMode))
	require.NoError(t, s.Delete(KeyGPUMode))
	_, found, err = s.Get(KeyGPUMode)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreDryRun(t *testing.T) {
	fsys := filesystem.NewMemory()
	s := NewStore(fsys, "/state", true)

	changed, err := s.Set(KeyGPUMode, "nvidia")
	require.NoError(t, err)
	assert.True(t, changed)

	ok, err := filesystem.Exists(fsys, s.Path(KeyGPUMode))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreRejectsBadKeys(t *testing.T) {
	s := NewStore(filesystem.NewMemory(), "/state", false)
	for _, key := range []string{"", "../etc/passwd", "a/b", "UPPER"} {
		_, _, err := s.Get(key)
		assert.Error(t, err, key)
	}
}
