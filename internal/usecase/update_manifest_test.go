package usecase

import (
	"testing"

	"github.com/relmint/relmint/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `[project]
name = "widget"
version = "1.2.3"
description = "A widget"

[build-system]
requires = ["hatchling"]
`

func newManifestFixture(t *testing.T, content string) *UpdateManifestUseCase {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "pyproject.toml", []byte(content), 0644))
	return &UpdateManifestUseCase{Fs: fs, Path: "pyproject.toml"}
}

func TestUpdateManifestUseCase_Read(t *testing.T) {
	t.Run("Should read the version field", func(t *testing.T) {
		uc := newManifestFixture(t, sampleManifest)
		version, err := uc.Read()
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", version.String())
	})
	t.Run("Should fail when no version field exists", func(t *testing.T) {
		uc := newManifestFixture(t, "[project]\nname = \"widget\"\n")
		_, err := uc.Read()
		assert.ErrorIs(t, err, domain.ErrManifestParse)
	})
	t.Run("Should fail when the version field is malformed", func(t *testing.T) {
		uc := newManifestFixture(t, "version = \"not-a-version\"\n")
		_, err := uc.Read()
		assert.ErrorIs(t, err, domain.ErrManifestParse)
	})
	t.Run("Should fail when the manifest is missing", func(t *testing.T) {
		uc := &UpdateManifestUseCase{Fs: afero.NewMemMapFs(), Path: "pyproject.toml"}
		_, err := uc.Read()
		assert.Error(t, err)
	})
}

func TestUpdateManifestUseCase_Write(t *testing.T) {
	t.Run("Should rewrite only the version value", func(t *testing.T) {
		uc := newManifestFixture(t, sampleManifest)
		target, err := domain.NewVersion("1.3.0")
		require.NoError(t, err)
		original, err := uc.Write(target)
		require.NoError(t, err)
		assert.Equal(t, sampleManifest, string(original))
		updated, err := afero.ReadFile(uc.Fs, uc.Path)
		require.NoError(t, err)
		assert.Contains(t, string(updated), `version = "1.3.0"`)
		assert.NotContains(t, string(updated), `version = "1.2.3"`)
	})
	t.Run("Should preserve every other byte of the file", func(t *testing.T) {
		content := "# header comment\nversion = \"0.5.2\"\n\n[tool]\nweird   =  \"  spacing \"\n"
		uc := newManifestFixture(t, content)
		target, err := domain.NewVersion("0.5.3")
		require.NoError(t, err)
		_, err = uc.Write(target)
		require.NoError(t, err)
		updated, err := afero.ReadFile(uc.Fs, uc.Path)
		require.NoError(t, err)
		assert.Equal(t,
			"# header comment\nversion = \"0.5.3\"\n\n[tool]\nweird   =  \"  spacing \"\n",
			string(updated))
	})
	t.Run("Should only touch the first version line", func(t *testing.T) {
		content := "version = \"1.0.0\"\n[tool.other]\nversion = \"9.9.9\"\n"
		uc := newManifestFixture(t, content)
		target, err := domain.NewVersion("1.0.1")
		require.NoError(t, err)
		_, err = uc.Write(target)
		require.NoError(t, err)
		updated, err := afero.ReadFile(uc.Fs, uc.Path)
		require.NoError(t, err)
		assert.Equal(t, "version = \"1.0.1\"\n[tool.other]\nversion = \"9.9.9\"\n", string(updated))
	})
}

func TestUpdateManifestUseCase_Restore(t *testing.T) {
	t.Run("Should restore the original content byte-identically", func(t *testing.T) {
		uc := newManifestFixture(t, sampleManifest)
		target, err := domain.NewVersion("2.0.0")
		require.NoError(t, err)
		original, err := uc.Write(target)
		require.NoError(t, err)
		require.NoError(t, uc.Restore(original))
		restored, err := afero.ReadFile(uc.Fs, uc.Path)
		require.NoError(t, err)
		assert.Equal(t, []byte(sampleManifest), restored)
	})
}
