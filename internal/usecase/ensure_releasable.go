package usecase

import (
	"context"
	"fmt"

	"github.com/relmint/relmint/internal/domain"
	"github.com/relmint/relmint/internal/repository"
)

// EnsureReleasableUseCase checks the mutation preconditions: the checkout is
// on the release branch and the working tree is clean. It is purely
// observational and is re-run by every entry point; a bump never trusts a
// check made by an earlier process invocation.

type EnsureReleasableUseCase struct {
	GitRepo repository.GitRepository
	Branch  string
}

// Execute returns a PreconditionError when the checkout is not releasable.
func (uc *EnsureReleasableUseCase) Execute(ctx context.Context) error {
	branch, err := uc.GitRepo.CurrentBranch(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current branch: %w", err)
	}
	if branch != uc.Branch {
		return domain.NewPreconditionError(domain.ErrWrongBranch,
			fmt.Sprintf("on %s, expected %s", branch, uc.Branch))
	}
	clean, err := uc.GitRepo.IsClean(ctx)
	if err != nil {
		return fmt.Errorf("failed to get worktree status: %w", err)
	}
	if !clean {
		return domain.NewPreconditionError(domain.ErrDirtyWorkingTree,
			"commit or stash changes before releasing")
	}
	return nil
}
