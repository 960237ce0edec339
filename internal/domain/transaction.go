package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus represents the overall status of a release transaction.
type TransactionStatus string

const (
	TransactionStatusPending     TransactionStatus = "pending"
	TransactionStatusRunning     TransactionStatus = "running"
	TransactionStatusCompleted   TransactionStatus = "completed"
	TransactionStatusRollingBack TransactionStatus = "rolling_back"
	TransactionStatusRolledBack  TransactionStatus = "rolled_back"
	TransactionStatusFailed      TransactionStatus = "failed"
)

// StepStatus represents the status of an individual pipeline step.
type StepStatus string

const (
	StepStatusPending     StepStatus = "pending"
	StepStatusRunning     StepStatus = "running"
	StepStatusCompleted   StepStatus = "completed"
	StepStatusFailed      StepStatus = "failed"
	StepStatusCompensated StepStatus = "compensated"
)

// StepName identifies a pipeline step.
type StepName string

const (
	StepManifestUpdated StepName = "manifest_updated"
	StepCommitted       StepName = "committed"
	StepTagged          StepName = "tagged"
	StepPushed          StepName = "pushed"
	StepPublished       StepName = "published"
)

// StepRecord represents a single step in the transaction.
type StepRecord struct {
	ID           string
	Name         StepName
	Status       StepStatus
	StartedAt    time.Time
	CompletedAt  *time.Time
	RollbackData map[string]any
	Error        string
}

// TransactionRecord tracks which steps of one release transaction have
// committed so the rollback handler can compensate them in reverse order.
// It exists only in memory for the duration of a single invocation.
type TransactionRecord struct {
	SessionID       string
	StartedAt       time.Time
	UpdatedAt       time.Time
	OriginalVersion string
	TargetVersion   string
	Steps           []StepRecord
	Status          TransactionStatus
	Error           string
}

// NewTransactionRecord creates a new transaction record.
func NewTransactionRecord(originalVersion, targetVersion string) *TransactionRecord {
	now := time.Now()
	return &TransactionRecord{
		SessionID:       uuid.New().String(),
		StartedAt:       now,
		UpdatedAt:       now,
		OriginalVersion: originalVersion,
		TargetVersion:   targetVersion,
		Steps:           []StepRecord{},
		Status:          TransactionStatusPending,
	}
}

// AddStep appends a pending step record.
func (tr *TransactionRecord) AddStep(name StepName) *StepRecord {
	step := StepRecord{
		ID:        string(name) + "_" + time.Now().Format("20060102150405"),
		Name:      name,
		Status:    StepStatusPending,
		StartedAt: time.Now(),
	}
	tr.Steps = append(tr.Steps, step)
	tr.UpdatedAt = time.Now()
	return &tr.Steps[len(tr.Steps)-1]
}

// CompletedSteps returns all successfully completed steps in reverse order,
// which is the order compensation must run in.
func (tr *TransactionRecord) CompletedSteps() []StepRecord {
	var completed []StepRecord
	for i := len(tr.Steps) - 1; i >= 0; i-- {
		if tr.Steps[i].Status == StepStatusCompleted {
			completed = append(completed, tr.Steps[i])
		}
	}
	return completed
}

// MarkStepStarted marks a pending step as running.
func (tr *TransactionRecord) MarkStepStarted(name StepName) {
	for i := range tr.Steps {
		if tr.Steps[i].Name == name && tr.Steps[i].Status == StepStatusPending {
			tr.Steps[i].Status = StepStatusRunning
			tr.Steps[i].StartedAt = time.Now()
			tr.UpdatedAt = time.Now()
			break
		}
	}
}

// MarkStepCompleted marks a running step as completed with rollback data.
func (tr *TransactionRecord) MarkStepCompleted(name StepName, rollbackData map[string]any) {
	now := time.Now()
	for i := range tr.Steps {
		if tr.Steps[i].Name == name && tr.Steps[i].Status == StepStatusRunning {
			tr.Steps[i].Status = StepStatusCompleted
			tr.Steps[i].CompletedAt = &now
			tr.Steps[i].RollbackData = rollbackData
			tr.UpdatedAt = now
			break
		}
	}
}

// MarkStepFailed marks a running step as failed and fails the transaction.
func (tr *TransactionRecord) MarkStepFailed(name StepName, err error) {
	now := time.Now()
	for i := range tr.Steps {
		if tr.Steps[i].Name == name && tr.Steps[i].Status == StepStatusRunning {
			tr.Steps[i].Status = StepStatusFailed
			tr.Steps[i].CompletedAt = &now
			tr.Steps[i].Error = err.Error()
			tr.UpdatedAt = now
			break
		}
	}
	tr.Status = TransactionStatusFailed
	tr.Error = err.Error()
}

// MarkStepCompensated marks a completed step as compensated.
func (tr *TransactionRecord) MarkStepCompensated(name StepName) {
	now := time.Now()
	for i := range tr.Steps {
		if tr.Steps[i].Name == name && tr.Steps[i].Status == StepStatusCompleted {
			tr.Steps[i].Status = StepStatusCompensated
			tr.Steps[i].CompletedAt = &now
			tr.UpdatedAt = now
			break
		}
	}
}
