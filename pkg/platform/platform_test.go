package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubdir(t *testing.T) {
	t.Run("Linux", func(t *testing.T) {
		subdir, err := Subdir(Linux)
		require.NoError(t, err)
		assert.Equal(t, "linux-64", subdir)
	})

	t.Run("OSX", func(t *testing.T) {
		subdir, err := Subdir(OSX)
		require.NoError(t, err)
		assert.Equal(t, "osx-64", subdir)
	})

	t.Run("Noarch", func(t *testing.T) {
		subdir, err := Subdir(Noarch)
		require.NoError(t, err)
		assert.Equal(t, "noarch", subdir)
	})

	t.Run("Windows", func(t *testing.T) {
		_, err := Subdir("win")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedPlatform)
		assert.Contains(t, err.Error(), "win")
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Subdir("")
		assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	})
}

func TestNative(t *testing.T) {
	native, err := Native()
	switch runtime.GOOS {
	case "linux":
		require.NoError(t, err)
		assert.Equal(t, Linux, native)
	case "darwin":
		require.NoError(t, err)
		assert.Equal(t, OSX, native)
	default:
		assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	}
}

func TestIsValid(t *testing.T) {
	for _, p := range Valid() {
		assert.True(t, IsValid(p), p)
	}
	assert.False(t, IsValid("win"))
	assert.False(t, IsValid(""))
}
