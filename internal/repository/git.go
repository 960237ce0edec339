package repository

import "context"

// GitRepository is the explicit handle onto one checkout. Every component
// that reads or mutates version-control state goes through it, so tests can
// substitute a sandboxed repository.

type GitRepository interface {
	CurrentBranch(ctx context.Context) (string, error)
	IsClean(ctx context.Context) (bool, error)
	LatestSemverTag(ctx context.Context) (string, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	CreateTag(ctx context.Context, tag, msg string) error
	DeleteTag(ctx context.Context, tag string) error
	HeadCommit(ctx context.Context) (string, error)
	AddFile(ctx context.Context, path string) error
	Commit(ctx context.Context, message string) (string, error)
	ResetHard(ctx context.Context, ref string) error
	PushBranch(ctx context.Context, remote, name string) error
	PushTag(ctx context.Context, remote, tag string) error
	ConfigureUser(ctx context.Context, name, email string) error
}
