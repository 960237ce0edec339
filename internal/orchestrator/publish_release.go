package orchestrator

import (
	"context"
	"fmt"

	"github.com/relmint/relmint/internal/config"
	"github.com/relmint/relmint/internal/domain"
	"github.com/relmint/relmint/internal/repository"
	"github.com/relmint/relmint/internal/usecase"
	"go.uber.org/zap"
)

// PublishConfig contains configuration for the publish workflow.
type PublishConfig struct {
	CIOutput bool
}

// PublishOrchestrator creates the hosted release for an already-pushed tag.
// It mutates no local state; its only effect is the remote release record.
type PublishOrchestrator struct {
	gitRepo   repository.GitRepository
	publisher repository.ReleasePublisher
	fsRepo    repository.FileSystemRepository
	cfg       *config.Config
	log       *zap.Logger
}

// NewPublishOrchestrator creates a new publish orchestrator.
func NewPublishOrchestrator(
	gitRepo repository.GitRepository,
	publisher repository.ReleasePublisher,
	fsRepo repository.FileSystemRepository,
	cfg *config.Config,
	log *zap.Logger,
) *PublishOrchestrator {
	return &PublishOrchestrator{
		gitRepo:   gitRepo,
		publisher: publisher,
		fsRepo:    fsRepo,
		cfg:       cfg,
		log:       log,
	}
}

// Execute publishes a release for the latest reachable tag. The tag and
// manifest versions must reconcile first unless the strategy disables the
// check.
func (o *PublishOrchestrator) Execute(ctx context.Context, cfg PublishConfig) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	if err := o.cfg.ValidateForPublishing(); err != nil {
		return err
	}
	guard := &usecase.EnsureReleasableUseCase{GitRepo: o.gitRepo, Branch: o.cfg.Branch}
	if err := guard.Execute(ctx); err != nil {
		return err
	}
	source := &usecase.ReadVersionUseCase{
		GitRepo:      o.gitRepo,
		Fs:           o.fsRepo,
		ManifestPath: o.cfg.ManifestPath,
	}
	if o.cfg.RequireReconcile {
		if err := source.Reconcile(ctx); err != nil {
			return err
		}
	}
	tagVersion, err := source.CurrentTagVersion(ctx)
	if err != nil {
		return err
	}
	tag := tagVersion.TagName()
	exists, err := o.publisher.ReleaseExists(ctx, tag)
	if err != nil {
		return fmt.Errorf("failed to check existing release: %w", err)
	}
	if exists {
		return domain.NewPreconditionError(domain.ErrDuplicateRelease, tag)
	}
	// Single network mutation, never retried silently.
	release, err := o.publisher.PublishRelease(ctx, tag, tag)
	if err != nil {
		return fmt.Errorf("failed to publish release %s: %w", tag, err)
	}
	o.log.Info("published release",
		zap.String("tag", release.TagName), zap.Int64("release_id", release.ID))
	if cfg.CIOutput {
		fmt.Printf("release_id=%d\n", release.ID)
		fmt.Printf("tag=%s\n", release.TagName)
	} else {
		fmt.Printf("Published release %s (id %d)\n", release.TagName, release.ID)
	}
	return nil
}
