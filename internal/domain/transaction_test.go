package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRecord_Lifecycle(t *testing.T) {
	t.Run("Should start pending with a session id", func(t *testing.T) {
		tr := NewTransactionRecord("1.2.3", "1.2.4")
		assert.NotEmpty(t, tr.SessionID)
		assert.Equal(t, TransactionStatusPending, tr.Status)
		assert.Equal(t, "1.2.3", tr.OriginalVersion)
		assert.Equal(t, "1.2.4", tr.TargetVersion)
		assert.Empty(t, tr.Steps)
	})
	t.Run("Should track a step through its statuses", func(t *testing.T) {
		tr := NewTransactionRecord("1.2.3", "1.2.4")
		tr.AddStep(StepManifestUpdated)
		tr.MarkStepStarted(StepManifestUpdated)
		assert.Equal(t, StepStatusRunning, tr.Steps[0].Status)
		tr.MarkStepCompleted(StepManifestUpdated, map[string]any{"path": "pyproject.toml"})
		assert.Equal(t, StepStatusCompleted, tr.Steps[0].Status)
		require.NotNil(t, tr.Steps[0].CompletedAt)
		assert.Equal(t, "pyproject.toml", tr.Steps[0].RollbackData["path"])
	})
	t.Run("Should fail the transaction when a step fails", func(t *testing.T) {
		tr := NewTransactionRecord("1.2.3", "1.2.4")
		tr.AddStep(StepTagged)
		tr.MarkStepStarted(StepTagged)
		tr.MarkStepFailed(StepTagged, errors.New("tag exists"))
		assert.Equal(t, StepStatusFailed, tr.Steps[0].Status)
		assert.Equal(t, TransactionStatusFailed, tr.Status)
		assert.Equal(t, "tag exists", tr.Error)
	})
	t.Run("Should mark compensated steps", func(t *testing.T) {
		tr := NewTransactionRecord("1.2.3", "1.2.4")
		tr.AddStep(StepCommitted)
		tr.MarkStepStarted(StepCommitted)
		tr.MarkStepCompleted(StepCommitted, nil)
		tr.MarkStepCompensated(StepCommitted)
		assert.Equal(t, StepStatusCompensated, tr.Steps[0].Status)
	})
}

func TestTransactionRecord_CompletedSteps(t *testing.T) {
	t.Run("Should return completed steps in reverse order", func(t *testing.T) {
		tr := NewTransactionRecord("1.2.3", "1.2.4")
		for _, name := range []StepName{StepManifestUpdated, StepCommitted, StepTagged} {
			tr.AddStep(name)
			tr.MarkStepStarted(name)
			tr.MarkStepCompleted(name, nil)
		}
		tr.AddStep(StepPushed)
		tr.MarkStepStarted(StepPushed)
		tr.MarkStepFailed(StepPushed, errors.New("remote rejected"))
		completed := tr.CompletedSteps()
		require.Len(t, completed, 3)
		assert.Equal(t, StepTagged, completed[0].Name)
		assert.Equal(t, StepCommitted, completed[1].Name)
		assert.Equal(t, StepManifestUpdated, completed[2].Name)
	})
	t.Run("Should return nothing when no step completed", func(t *testing.T) {
		tr := NewTransactionRecord("1.2.3", "1.2.4")
		tr.AddStep(StepManifestUpdated)
		assert.Empty(t, tr.CompletedSteps())
	})
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("Should expose precondition sentinel through errors.Is", func(t *testing.T) {
		err := NewPreconditionError(ErrWrongBranch, "on feature/x, expected main")
		assert.ErrorIs(t, err, ErrWrongBranch)
		assert.Contains(t, err.Error(), "feature/x")
	})
	t.Run("Should expose step failure cause and compensation outcomes", func(t *testing.T) {
		cause := errors.New("network down")
		err := &StepFailure{
			Step: StepPushed,
			Err:  cause,
			Compensations: []CompensationOutcome{
				{Step: StepTagged, Result: CompensationSucceeded},
				{Step: StepManifestUpdated, Result: CompensationSucceeded},
			},
		}
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "pushed")
		assert.Contains(t, err.Error(), "succeeded")
	})
	t.Run("Should name remote artifacts in a compensation gap", func(t *testing.T) {
		gap := &CompensationGap{
			Step:            StepPushed,
			RemoteArtifacts: []string{"branch main on origin", "tag v1.2.4 on origin"},
			Cause:           errors.New("publish failed"),
		}
		assert.Contains(t, gap.Error(), "tag v1.2.4 on origin")
		assert.Contains(t, gap.Error(), "manual cleanup")
		var sf *StepFailure
		assert.False(t, errors.As(gap, &sf))
	})
}
