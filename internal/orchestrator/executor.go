package orchestrator

import (
	"context"

	"github.com/relmint/relmint/internal/domain"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Step is a single step in the release transaction. Compensable steps carry
// a Compensate function that undoes their forward effect locally;
// non-compensable steps (push, publish) instead report the remote artifacts
// they created via the "remote_artifacts" rollback-data key.
type Step struct {
	Name        string
	Step        domain.StepName
	Compensable bool
	Execute     func(ctx context.Context) (rollbackData map[string]any, err error)
	Compensate  func(ctx context.Context, rollbackData map[string]any) error
}

// TransactionExecutor runs the strictly sequential release pipeline and
// drives best-effort compensation in reverse order on any failure, including
// operator interruption. The transaction record lives only in memory for the
// duration of one invocation.
type TransactionExecutor struct {
	record *domain.TransactionRecord
	steps  []Step
	log    *zap.Logger
}

// NewTransactionExecutor creates an executor bound to a fresh record.
func NewTransactionExecutor(record *domain.TransactionRecord, log *zap.Logger) *TransactionExecutor {
	return &TransactionExecutor{
		record: record,
		steps:  []Step{},
		log:    log,
	}
}

// AddStep appends a step to the pipeline.
func (e *TransactionExecutor) AddStep(step Step) {
	e.steps = append(e.steps, step)
	e.record.AddStep(step.Step)
}

// Record returns the transaction record.
func (e *TransactionExecutor) Record() *domain.TransactionRecord {
	return e.record
}

// Execute runs every step in order. On the first failure it rolls back the
// compensable prefix of completed steps and returns either a StepFailure or,
// when a completed step cannot be undone locally, a CompensationGap naming
// the remote artifacts the operator must clean up.
func (e *TransactionExecutor) Execute(ctx context.Context) error {
	e.record.Status = domain.TransactionStatusRunning
	for _, step := range e.steps {
		if err := e.executeStep(ctx, step); err != nil {
			e.record.MarkStepFailed(step.Step, err)
			e.log.Error("step failed, rolling back",
				zap.String("step", string(step.Step)), zap.Error(err))
			// Rollback must complete even when the parent context was
			// canceled by an operator interrupt.
			rollbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RollbackTimeout)
			outcomes, gapStep, artifacts := e.rollback(rollbackCtx)
			cancel()
			failure := &domain.StepFailure{Step: step.Step, Err: err, Compensations: outcomes}
			if gapStep != "" {
				return &domain.CompensationGap{
					Step:            gapStep,
					RemoteArtifacts: artifacts,
					Cause:           failure,
				}
			}
			return failure
		}
	}
	e.record.Status = domain.TransactionStatusCompleted
	return nil
}

// executeStep executes a single step, honoring cancellation between steps.
func (e *TransactionExecutor) executeStep(ctx context.Context, step Step) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	e.record.MarkStepStarted(step.Step)
	e.log.Info("executing step", zap.String("step", string(step.Step)))
	rollbackData, err := step.Execute(ctx)
	if err != nil {
		return err
	}
	e.record.MarkStepCompleted(step.Step, rollbackData)
	return nil
}

// rollback compensates completed steps in strict reverse order. Steps that
// are not locally compensable are recorded as a gap and skipped; every
// compensable step before them is still undone, so the manifest is always
// restored. It returns the per-step outcomes, the latest non-compensable
// completed step (or ""), and the remote artifacts it left behind.
func (e *TransactionExecutor) rollback(
	ctx context.Context,
) ([]domain.CompensationOutcome, domain.StepName, []string) {
	e.record.Status = domain.TransactionStatusRollingBack
	completed := e.record.CompletedSteps()
	var outcomes []domain.CompensationOutcome
	var gapStep domain.StepName
	var artifacts []string
	anyFailed := false
	for _, op := range completed {
		step := e.findStep(op.Name)
		if step == nil {
			continue
		}
		if !step.Compensable {
			if gapStep == "" {
				gapStep = op.Name
			}
			artifacts = append(artifacts, remoteArtifacts(op.RollbackData)...)
			outcomes = append(outcomes, domain.CompensationOutcome{
				Step:   op.Name,
				Result: domain.CompensationNotAttempted,
				Detail: "not locally compensable",
			})
			continue
		}
		e.log.Info("compensating step", zap.String("step", string(op.Name)))
		if err := e.executeCompensation(ctx, step, op.RollbackData); err != nil {
			anyFailed = true
			e.log.Error("compensation failed",
				zap.String("step", string(op.Name)), zap.Error(err))
			outcomes = append(outcomes, domain.CompensationOutcome{
				Step:   op.Name,
				Result: domain.CompensationFailed,
				Detail: err.Error(),
			})
			continue
		}
		e.record.MarkStepCompensated(op.Name)
		outcomes = append(outcomes, domain.CompensationOutcome{
			Step:   op.Name,
			Result: domain.CompensationSucceeded,
		})
	}
	if anyFailed {
		e.record.Status = domain.TransactionStatusFailed
	} else {
		e.record.Status = domain.TransactionStatusRolledBack
	}
	return outcomes, gapStep, artifacts
}

// executeCompensation executes a compensating action with retry.
func (e *TransactionExecutor) executeCompensation(
	ctx context.Context,
	step *Step,
	rollbackData map[string]any,
) error {
	retryStrategy := retry.WithMaxRetries(CompensationRetryCount, retry.NewExponential(CompensationRetryDelay))
	return retry.Do(ctx, retryStrategy, func(retryCtx context.Context) error {
		select {
		case <-retryCtx.Done():
			return retryCtx.Err()
		default:
		}
		if err := step.Compensate(retryCtx, rollbackData); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// findStep finds a pipeline step by name.
func (e *TransactionExecutor) findStep(name domain.StepName) *Step {
	for i := range e.steps {
		if e.steps[i].Step == name {
			return &e.steps[i]
		}
	}
	return nil
}

// remoteArtifacts extracts the remote artifact descriptions a
// non-compensable step recorded.
func remoteArtifacts(rollbackData map[string]any) []string {
	raw, ok := rollbackData["remote_artifacts"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
