package repository

import (
	"context"

	"github.com/relmint/relmint/internal/domain"
)

// ReleasePublisher defines the interface for hosted-release operations. It is
// an external, possibly slow, possibly flaky network collaborator; callers
// must not retry PublishRelease silently.

type ReleasePublisher interface {
	PublishRelease(ctx context.Context, tag, title string) (*domain.Release, error)
	ReleaseExists(ctx context.Context, tag string) (bool, error)
}
