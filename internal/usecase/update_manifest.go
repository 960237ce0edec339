package usecase

import (
	"fmt"
	"regexp"

	"github.com/relmint/relmint/internal/domain"
	"github.com/spf13/afero"
)

// manifestVersionRe matches the first `version = "<semver>"` line of the
// manifest. Only the quoted value is ever rewritten; every other byte of the
// file is preserved.
var manifestVersionRe = regexp.MustCompile(`(?m)^(\s*version\s*=\s*")([^"]+)(")`)

// UpdateManifestUseCase reads and rewrites the manifest version field in
// place.

type UpdateManifestUseCase struct {
	Fs   afero.Fs
	Path string
}

// Read returns the manifest version.
func (uc *UpdateManifestUseCase) Read() (*domain.Version, error) {
	data, err := afero.ReadFile(uc.Fs, uc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", uc.Path, err)
	}
	m := manifestVersionRe.FindSubmatch(data)
	if m == nil {
		return nil, domain.NewPreconditionError(domain.ErrManifestParse, uc.Path)
	}
	version, err := domain.NewVersion(string(m[2]))
	if err != nil {
		return nil, domain.NewPreconditionError(domain.ErrManifestParse,
			fmt.Sprintf("%s: version field %q: %v", uc.Path, m[2], err))
	}
	return version, nil
}

// Write rewrites the version field to target and returns the original file
// content so a rollback can restore it byte-identically.
func (uc *UpdateManifestUseCase) Write(target *domain.Version) ([]byte, error) {
	original, err := afero.ReadFile(uc.Fs, uc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", uc.Path, err)
	}
	loc := manifestVersionRe.FindSubmatchIndex(original)
	if loc == nil {
		return nil, domain.NewPreconditionError(domain.ErrManifestParse, uc.Path)
	}
	// Splice the target between the capture groups around the old value so
	// only the quoted version changes.
	updated := make([]byte, 0, len(original))
	updated = append(updated, original[:loc[4]]...)
	updated = append(updated, []byte(target.String())...)
	updated = append(updated, original[loc[5]:]...)
	info, err := uc.Fs.Stat(uc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest %s: %w", uc.Path, err)
	}
	if err := afero.WriteFile(uc.Fs, uc.Path, updated, info.Mode()); err != nil {
		return nil, fmt.Errorf("failed to write manifest %s: %w", uc.Path, err)
	}
	return original, nil
}

// Restore writes the original content back, exactly as captured by Write.
func (uc *UpdateManifestUseCase) Restore(original []byte) error {
	info, err := uc.Fs.Stat(uc.Path)
	if err != nil {
		return fmt.Errorf("failed to stat manifest %s: %w", uc.Path, err)
	}
	if err := afero.WriteFile(uc.Fs, uc.Path, original, info.Mode()); err != nil {
		return fmt.Errorf("failed to restore manifest %s: %w", uc.Path, err)
	}
	return nil
}
