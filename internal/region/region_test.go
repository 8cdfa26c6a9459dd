package region

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	reg := Default()
	assert.Equal(t, []string{"C", "F", "P"}, reg.AllPrefixes())

	p, ok := reg.PrefixFor("Potsdam")
	require.True(t, ok)
	assert.Equal(t, "P", p)

	_, ok = reg.PrefixFor("Bayern")
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
regions:
  - prefix: P
    name: Potsdam
  - prefix: C
    name: Cottbus
`), 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "P"}, reg.AllPrefixes())
	assert.Len(t, reg.Regions(), 2)
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("empty regions", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("regions: []\n"), 0o644))
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "defines no regions")
	})

	t.Run("entry without prefix", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("regions:\n  - name: Potsdam\n"), 0o644))
		_, err := LoadFile(path)
		require.Error(t, err)
	})
}
