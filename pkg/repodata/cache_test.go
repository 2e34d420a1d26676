package repodata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repodata.tsv")
	records := testIndex().Records()
	require.NoError(t, SaveTable(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, len(records)+1)

	// Header: leading unlabeled index column, then the retained columns.
	assert.Equal(t, "\tbuild\tbuild_number\tname\tversion\tchannel\tplatform\tsubdir", lines[0])
	assert.Equal(t, "0\th1_0\t0\tsamtools\t1.9\tbioconda\tlinux\tlinux-64", lines[1])
}

func TestLoadTable(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "repodata.tsv")
		original := testIndex().Records()
		require.NoError(t, SaveTable(path, original))

		loaded, err := LoadTable(path)
		require.NoError(t, err)
		assert.ElementsMatch(t, original, loaded)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadTable(filepath.Join(t.TempDir(), "nope.tsv"))
		assert.Error(t, err)
	})

	t.Run("MissingColumn", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "repodata.tsv")
		require.NoError(t, os.WriteFile(path, []byte("\tbuild\tname\n0\th1_0\tsamtools\n"), 0o644))

		_, err := LoadTable(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCacheInvalid)
		assert.Contains(t, err.Error(), "build_number")
	})

	t.Run("BadBuildNumber", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "repodata.tsv")
		content := "\tbuild\tbuild_number\tname\tversion\tchannel\tplatform\tsubdir\n" +
			"0\th1_0\tmany\tsamtools\t1.9\tbioconda\tlinux\tlinux-64\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := LoadTable(path)
		assert.ErrorIs(t, err, ErrCacheInvalid)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "repodata.tsv")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		_, err := LoadTable(path)
		assert.ErrorIs(t, err, ErrCacheInvalid)
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "repodata.tsv")
		require.NoError(t, os.WriteFile(path, []byte("\tbuild\tbuild_number\tname\tversion\tchannel\tplatform\tsubdir\n"), 0o644))

		records, err := LoadTable(path)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
