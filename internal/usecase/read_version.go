package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/relmint/relmint/internal/domain"
	"github.com/relmint/relmint/internal/repository"
	"github.com/spf13/afero"
)

// ReadVersionUseCase reads the current version from its two independent
// sources: the latest reachable VCS tag and the manifest field.

type ReadVersionUseCase struct {
	GitRepo      repository.GitRepository
	Fs           afero.Fs
	ManifestPath string
}

// CurrentTagVersion returns the version of the latest reachable v-prefixed
// semver tag.
func (uc *ReadVersionUseCase) CurrentTagVersion(ctx context.Context) (*domain.Version, error) {
	tag, err := uc.GitRepo.LatestSemverTag(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest tag: %w", err)
	}
	if tag == "" {
		return nil, domain.NewPreconditionError(domain.ErrNoTagFound, "")
	}
	version, err := domain.NewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tag %s: %w", tag, err)
	}
	return version, nil
}

// ManifestVersion returns the version recorded in the manifest.
func (uc *ReadVersionUseCase) ManifestVersion(_ context.Context) (*domain.Version, error) {
	manifest := &UpdateManifestUseCase{Fs: uc.Fs, Path: uc.ManifestPath}
	return manifest.Read()
}

// Reconcile fails when the tag and manifest versions disagree. It gates
// publishing a release, not bumping one: a bump legitimately moves the
// manifest ahead of the tag.
func (uc *ReadVersionUseCase) Reconcile(ctx context.Context) error {
	tagVersion, err := uc.CurrentTagVersion(ctx)
	if err != nil {
		return err
	}
	manifestVersion, err := uc.ManifestVersion(ctx)
	if err != nil {
		return err
	}
	if !tagVersion.Equal(manifestVersion) {
		return domain.NewPreconditionError(domain.ErrVersionMismatch,
			fmt.Sprintf("tag is %s but manifest is %s", tagVersion, manifestVersion))
	}
	return nil
}

// Snapshot reads a fresh RepositoryState for the start of a transaction.
func (uc *ReadVersionUseCase) Snapshot(ctx context.Context) (*domain.RepositoryState, error) {
	branch, err := uc.GitRepo.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current branch: %w", err)
	}
	clean, err := uc.GitRepo.IsClean(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}
	latestTag, err := uc.GitRepo.LatestSemverTag(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest tag: %w", err)
	}
	manifestVersion, err := uc.ManifestVersion(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.RepositoryState{
		CurrentBranch:   branch,
		IsClean:         clean,
		LatestTag:       latestTag,
		ManifestVersion: manifestVersion,
	}, nil
}
