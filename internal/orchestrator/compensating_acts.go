package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/relmint/relmint/internal/repository"
	"github.com/relmint/relmint/internal/usecase"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// CompensatingActions provides idempotent rollback operations for release
// transaction steps. Each action checks the current state first so a retried
// or partially applied rollback never over-corrects.
type CompensatingActions struct {
	gitRepo  repository.GitRepository
	manifest *usecase.UpdateManifestUseCase
	log      *zap.Logger
}

// NewCompensatingActions creates a new compensating actions handler.
func NewCompensatingActions(
	gitRepo repository.GitRepository,
	manifest *usecase.UpdateManifestUseCase,
	log *zap.Logger,
) *CompensatingActions {
	return &CompensatingActions{
		gitRepo:  gitRepo,
		manifest: manifest,
		log:      log,
	}
}

// RestoreManifest writes the pre-transaction manifest content back exactly.
// The manifest is the one artifact guaranteed to be re-editable locally no
// matter how far the transaction progressed, so this always runs.
func (ca *CompensatingActions) RestoreManifest(_ context.Context, rollbackData map[string]any) error {
	original, ok := rollbackData["original_content"].(string)
	if !ok {
		return fmt.Errorf("original_content not found in rollback data")
	}
	current, err := afero.ReadFile(ca.manifest.Fs, ca.manifest.Path)
	if err == nil && bytes.Equal(current, []byte(original)) {
		return nil // already restored
	}
	return ca.manifest.Restore([]byte(original))
}

// ResetCommit undoes the release commit by hard-resetting the branch to its
// recorded parent. The clean-tree precondition guarantees the reset cannot
// discard unrelated work.
func (ca *CompensatingActions) ResetCommit(ctx context.Context, rollbackData map[string]any) error {
	commitSHA, ok := rollbackData["commit_sha"].(string)
	if !ok || commitSHA == "" {
		return nil
	}
	parentSHA, ok := rollbackData["parent_sha"].(string)
	if !ok || parentSHA == "" {
		return fmt.Errorf("parent_sha not found in rollback data")
	}
	currentHead, err := ca.gitRepo.HeadCommit(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current HEAD: %w", err)
	}
	if !strings.HasPrefix(currentHead, commitSHA) {
		ca.log.Info("commit already reset, skipping", zap.String("commit", commitSHA))
		return nil
	}
	if err := ca.gitRepo.ResetHard(ctx, parentSHA); err != nil {
		return fmt.Errorf("failed to reset commit %s: %w", commitSHA, err)
	}
	return nil
}

// DeleteTag deletes the local release tag if it still exists.
func (ca *CompensatingActions) DeleteTag(ctx context.Context, rollbackData map[string]any) error {
	tag, ok := rollbackData["tag"].(string)
	if !ok || tag == "" {
		return fmt.Errorf("tag not found in rollback data")
	}
	exists, err := ca.gitRepo.TagExists(ctx, tag)
	if err != nil {
		return fmt.Errorf("failed to check tag %s: %w", tag, err)
	}
	if !exists {
		return nil
	}
	if err := ca.gitRepo.DeleteTag(ctx, tag); err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", tag, err)
	}
	return nil
}
