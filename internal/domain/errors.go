package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for precondition and collaborator failures.
var (
	ErrWrongBranch       = errors.New("not on the release branch")
	ErrDirtyWorkingTree  = errors.New("working tree has uncommitted changes")
	ErrVersionMismatch   = errors.New("tag and manifest versions disagree")
	ErrNoTagFound        = errors.New("no semantic version tag reachable from HEAD")
	ErrManifestParse     = errors.New("manifest has no well-formed version field")
	ErrTagAlreadyExists  = errors.New("target tag already exists")
	ErrRemoteUnavailable = errors.New("release host unavailable")
	ErrDuplicateRelease  = errors.New("a release already exists for this tag")
	ErrCheckoutLocked    = errors.New("another release transaction holds the checkout lock")
)

// PreconditionError reports a violated entry condition. It is always raised
// before any mutation has been attempted.
type PreconditionError struct {
	Reason error
	Detail string
}

func (e *PreconditionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("precondition failed: %v", e.Reason)
	}
	return fmt.Sprintf("precondition failed: %v: %s", e.Reason, e.Detail)
}

func (e *PreconditionError) Unwrap() error {
	return e.Reason
}

// NewPreconditionError creates a PreconditionError wrapping a sentinel.
func NewPreconditionError(reason error, detail string) *PreconditionError {
	return &PreconditionError{Reason: reason, Detail: detail}
}

// CompensationResult describes the outcome of one compensating action.
type CompensationResult string

const (
	CompensationSucceeded    CompensationResult = "succeeded"
	CompensationFailed       CompensationResult = "failed"
	CompensationNotAttempted CompensationResult = "not-attempted"
)

// CompensationOutcome pairs a step with the result of its compensation.
type CompensationOutcome struct {
	Step   StepName
	Result CompensationResult
	Detail string
}

func (o CompensationOutcome) String() string {
	if o.Detail == "" {
		return fmt.Sprintf("%s: %s", o.Step, o.Result)
	}
	return fmt.Sprintf("%s: %s (%s)", o.Step, o.Result, o.Detail)
}

// StepFailure reports a failed pipeline step together with the outcome of
// every compensating action that ran afterwards.
type StepFailure struct {
	Step          StepName
	Err           error
	Compensations []CompensationOutcome
}

func (e *StepFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "step %s failed: %v", e.Step, e.Err)
	if len(e.Compensations) > 0 {
		b.WriteString("; compensation: ")
		parts := make([]string, len(e.Compensations))
		for i, o := range e.Compensations {
			parts[i] = o.String()
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}

func (e *StepFailure) Unwrap() error {
	return e.Err
}

// CompensationGap reports a failure after a step whose effects cannot be
// undone locally. The named remote artifacts may now be inconsistent with
// local state and require manual cleanup by the operator.
type CompensationGap struct {
	Step            StepName
	RemoteArtifacts []string
	Cause           error
}

func (e *CompensationGap) Error() string {
	artifacts := "none recorded"
	if len(e.RemoteArtifacts) > 0 {
		artifacts = strings.Join(e.RemoteArtifacts, ", ")
	}
	return fmt.Sprintf(
		"cannot fully roll back past step %s: %v; remote artifacts requiring manual cleanup: %s",
		e.Step, e.Cause, artifacts,
	)
}

func (e *CompensationGap) Unwrap() error {
	return e.Cause
}
