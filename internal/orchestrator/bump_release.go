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

// BumpConfig contains configuration for a bump transaction.
type BumpConfig struct {
	Kind        domain.BumpKind
	DryRun      bool // Plan only, zero mutations
	SkipPublish bool // Stop after pushing, no hosted release
	CIOutput    bool // Output in CI-friendly format
}

// BumpOrchestrator drives the full release transaction: manifest update,
// commit, tag, push, publish, with rollback of the compensable prefix on any
// failure.
type BumpOrchestrator struct {
	gitRepo   repository.GitRepository
	publisher repository.ReleasePublisher
	fsRepo    repository.FileSystemRepository
	cfg       *config.Config
	lock      *repository.TransactionLock
	log       *zap.Logger
}

// NewBumpOrchestrator creates a new bump orchestrator.
func NewBumpOrchestrator(
	gitRepo repository.GitRepository,
	publisher repository.ReleasePublisher,
	fsRepo repository.FileSystemRepository,
	cfg *config.Config,
	lock *repository.TransactionLock,
	log *zap.Logger,
) *BumpOrchestrator {
	return &BumpOrchestrator{
		gitRepo:   gitRepo,
		publisher: publisher,
		fsRepo:    fsRepo,
		cfg:       cfg,
		lock:      lock,
		log:       log,
	}
}

// Execute runs the complete bump transaction. Preconditions are checked
// fresh on every invocation; no state is trusted from a prior run.
func (o *BumpOrchestrator) Execute(ctx context.Context, cfg BumpConfig) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	guard := &usecase.EnsureReleasableUseCase{GitRepo: o.gitRepo, Branch: o.cfg.Branch}
	if err := guard.Execute(ctx); err != nil {
		return err
	}
	if err := ValidateBranchName(o.cfg.Branch); err != nil {
		return fmt.Errorf("invalid branch name: %w", err)
	}
	if o.lock != nil {
		if err := o.lock.Acquire(ctx); err != nil {
			return err
		}
		defer func() {
			if err := o.lock.Release(); err != nil {
				o.log.Warn("failed to release checkout lock", zap.Error(err))
			}
		}()
	}
	manifest := &usecase.UpdateManifestUseCase{Fs: o.fsRepo, Path: o.cfg.ManifestPath}
	current, err := manifest.Read()
	if err != nil {
		return err
	}
	target := current.Bump(cfg.Kind)
	if err := ValidateVersion(target.String()); err != nil {
		return fmt.Errorf("invalid target version: %w", err)
	}
	// Idempotency short-circuit: re-running a finished bump must fail
	// descriptively instead of re-issuing mutations.
	exists, err := o.gitRepo.TagExists(ctx, target.TagName())
	if err != nil {
		return fmt.Errorf("failed to check tag %s: %w", target.TagName(), err)
	}
	if exists {
		return domain.NewPreconditionError(domain.ErrTagAlreadyExists,
			fmt.Sprintf("%s; the previous transaction may already have completed", target.TagName()))
	}
	o.printCIOutput(cfg.CIOutput, "current_version=%s\n", current)
	o.printCIOutput(cfg.CIOutput, "target_version=%s\n", target)
	if cfg.DryRun {
		o.printStatus(cfg.CIOutput,
			fmt.Sprintf("Dry-run: would release %s -> %s (no mutations performed)", current, target))
		return nil
	}
	record := domain.NewTransactionRecord(current.String(), target.String())
	o.log.Info("starting release transaction",
		zap.String("session", record.SessionID),
		zap.String("from", current.String()),
		zap.String("to", target.String()))
	executor := NewTransactionExecutor(record, o.log)
	compensator := NewCompensatingActions(o.gitRepo, manifest, o.log)
	o.addManifestStep(executor, compensator, manifest, target)
	o.addCommitStep(executor, compensator, target)
	o.addTagStep(executor, compensator, target)
	o.addPushStep(executor, target)
	if !cfg.SkipPublish {
		o.addPublishStep(executor, target)
	}
	if err := executor.Execute(ctx); err != nil {
		return err
	}
	o.printStatus(cfg.CIOutput, fmt.Sprintf("Released %s", target.TagName()))
	return nil
}

// printCIOutput prints output in CI format if enabled
func (o *BumpOrchestrator) printCIOutput(ciOutput bool, format string, args ...any) {
	if ciOutput {
		fmt.Printf(format, args...)
	}
}

// printStatus prints status messages when not in CI mode
func (o *BumpOrchestrator) printStatus(ciOutput bool, message string) {
	if !ciOutput {
		fmt.Println(message)
	}
}

func (o *BumpOrchestrator) addManifestStep(
	executor *TransactionExecutor,
	compensator *CompensatingActions,
	manifest *usecase.UpdateManifestUseCase,
	target *domain.Version,
) {
	executor.AddStep(Step{
		Name:        "Update Manifest",
		Step:        domain.StepManifestUpdated,
		Compensable: true,
		Execute: func(_ context.Context) (map[string]any, error) {
			original, err := manifest.Write(target)
			if err != nil {
				return nil, fmt.Errorf("failed to update manifest: %w", err)
			}
			return map[string]any{
				"original_content": string(original),
				"path":             manifest.Path,
			}, nil
		},
		Compensate: compensator.RestoreManifest,
	})
}

func (o *BumpOrchestrator) addCommitStep(
	executor *TransactionExecutor,
	compensator *CompensatingActions,
	target *domain.Version,
) {
	executor.AddStep(Step{
		Name:        "Commit Manifest",
		Step:        domain.StepCommitted,
		Compensable: true,
		Execute: func(ctx context.Context) (map[string]any, error) {
			parent, err := o.gitRepo.HeadCommit(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get HEAD before commit: %w", err)
			}
			if err := o.gitRepo.AddFile(ctx, o.cfg.ManifestPath); err != nil {
				return nil, fmt.Errorf("failed to stage manifest: %w", err)
			}
			message := fmt.Sprintf("chore(release): %s", target.TagName())
			sha, err := o.gitRepo.Commit(ctx, message)
			if err != nil {
				return nil, fmt.Errorf("failed to commit manifest change: %w", err)
			}
			return map[string]any{
				"commit_sha": sha,
				"parent_sha": parent,
			}, nil
		},
		Compensate: compensator.ResetCommit,
	})
}

func (o *BumpOrchestrator) addTagStep(
	executor *TransactionExecutor,
	compensator *CompensatingActions,
	target *domain.Version,
) {
	executor.AddStep(Step{
		Name:        "Create Tag",
		Step:        domain.StepTagged,
		Compensable: true,
		Execute: func(ctx context.Context) (map[string]any, error) {
			tag := target.TagName()
			if err := o.gitRepo.CreateTag(ctx, tag, "Release "+tag); err != nil {
				return nil, fmt.Errorf("failed to create tag: %w", err)
			}
			return map[string]any{"tag": tag}, nil
		},
		Compensate: compensator.DeleteTag,
	})
}

func (o *BumpOrchestrator) addPushStep(executor *TransactionExecutor, target *domain.Version) {
	executor.AddStep(Step{
		Name:        "Push to Remote",
		Step:        domain.StepPushed,
		Compensable: false, // a push cannot retract remote history
		Execute: func(ctx context.Context) (map[string]any, error) {
			if err := o.gitRepo.PushBranch(ctx, o.cfg.Remote, o.cfg.Branch); err != nil {
				return nil, err
			}
			tag := target.TagName()
			if err := o.gitRepo.PushTag(ctx, o.cfg.Remote, tag); err != nil {
				// The branch went out but the tag did not; record the
				// partial artifact before failing the step.
				return nil, fmt.Errorf("branch %s pushed but tag push failed: %w", o.cfg.Branch, err)
			}
			return map[string]any{
				"remote_artifacts": []string{
					fmt.Sprintf("commit on branch %s at remote %s", o.cfg.Branch, o.cfg.Remote),
					fmt.Sprintf("tag %s at remote %s", tag, o.cfg.Remote),
				},
			}, nil
		},
	})
}

func (o *BumpOrchestrator) addPublishStep(executor *TransactionExecutor, target *domain.Version) {
	executor.AddStep(Step{
		Name:        "Publish Release",
		Step:        domain.StepPublished,
		Compensable: false, // no automated compensation for a hosted release
		Execute: func(ctx context.Context) (map[string]any, error) {
			tag := target.TagName()
			// Never retried: a create-release call without idempotency keys
			// risks duplicate records.
			release, err := o.publisher.PublishRelease(ctx, tag, tag)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"release_id": release.ID,
				"remote_artifacts": []string{
					fmt.Sprintf("published release %s (id %d)", tag, release.ID),
				},
			}, nil
		},
	})
}
