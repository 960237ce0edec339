package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersion(t *testing.T) {
	t.Run("Should create valid version from string", func(t *testing.T) {
		version, err := NewVersion("1.2.3")
		require.NoError(t, err)
		assert.NotNil(t, version)
		assert.Equal(t, "1.2.3", version.String())
		assert.Equal(t, "v1.2.3", version.TagName())
	})
	t.Run("Should return error for invalid version string", func(t *testing.T) {
		version, err := NewVersion("invalid")
		assert.Error(t, err)
		assert.Nil(t, version)
	})
	t.Run("Should handle version with v prefix", func(t *testing.T) {
		version, err := NewVersion("v1.2.3")
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", version.String())
		assert.Equal(t, "v1.2.3", version.TagName())
	})
}

func TestParseBumpKind(t *testing.T) {
	t.Run("Should parse all three kinds", func(t *testing.T) {
		for input, want := range map[string]BumpKind{
			"major": BumpMajor,
			"minor": BumpMinor,
			"patch": BumpPatch,
			"MAJOR": BumpMajor,
			" patch ": BumpPatch,
		} {
			kind, err := ParseBumpKind(input)
			require.NoError(t, err)
			assert.Equal(t, want, kind)
		}
	})
	t.Run("Should reject unknown kind", func(t *testing.T) {
		_, err := ParseBumpKind("hotfix")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "hotfix")
	})
}

func TestVersion_Bump(t *testing.T) {
	t.Run("Should bump major and reset minor and patch", func(t *testing.T) {
		version, err := NewVersion("1.2.3")
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", version.Bump(BumpMajor).String())
	})
	t.Run("Should bump minor and reset patch", func(t *testing.T) {
		version, err := NewVersion("1.2.3")
		require.NoError(t, err)
		assert.Equal(t, "1.3.0", version.Bump(BumpMinor).String())
	})
	t.Run("Should bump patch only", func(t *testing.T) {
		version, err := NewVersion("1.2.3")
		require.NoError(t, err)
		assert.Equal(t, "1.2.4", version.Bump(BumpPatch).String())
	})
	t.Run("Should not mutate the receiver", func(t *testing.T) {
		version, err := NewVersion("1.2.3")
		require.NoError(t, err)
		_ = version.Bump(BumpMajor)
		assert.Equal(t, "1.2.3", version.String())
	})
	t.Run("Should always produce a strictly greater version", func(t *testing.T) {
		for _, s := range []string{"0.0.0", "0.1.9", "1.2.3", "10.20.30"} {
			for _, kind := range []BumpKind{BumpMajor, BumpMinor, BumpPatch} {
				version, err := NewVersion(s)
				require.NoError(t, err)
				bumped := version.Bump(kind)
				assert.Equal(t, 1, bumped.Compare(version),
					"bump(%s, %s) must be greater than input", s, kind)
			}
		}
	})
	t.Run("Should never change major or minor on patch bump", func(t *testing.T) {
		version, err := NewVersion("3.7.11")
		require.NoError(t, err)
		bumped := version.Bump(BumpPatch)
		assert.Equal(t, version.Major(), bumped.Major())
		assert.Equal(t, version.Minor(), bumped.Minor())
	})
	t.Run("Should be deterministic for repeated calls", func(t *testing.T) {
		version, err := NewVersion("1.2.3")
		require.NoError(t, err)
		first := version.Bump(BumpMinor)
		second := version.Bump(BumpMinor)
		assert.True(t, first.Equal(second))
	})
}

func TestVersion_Compare(t *testing.T) {
	t.Run("Should compare versions correctly", func(t *testing.T) {
		v1, err := NewVersion("1.2.3")
		require.NoError(t, err)
		v2, err := NewVersion("1.2.4")
		require.NoError(t, err)
		v3, err := NewVersion("1.2.3")
		require.NoError(t, err)
		assert.Equal(t, -1, v1.Compare(v2))
		assert.Equal(t, 1, v2.Compare(v1))
		assert.Equal(t, 0, v1.Compare(v3))
		assert.True(t, v1.Equal(v3))
	})
	t.Run("Should order by lexicographic tuple comparison", func(t *testing.T) {
		v1, err := NewVersion("1.9.9")
		require.NoError(t, err)
		v2, err := NewVersion("2.0.0")
		require.NoError(t, err)
		assert.Equal(t, -1, v1.Compare(v2))
	})
}
