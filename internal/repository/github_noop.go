package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/relmint/relmint/internal/domain"
)

var ErrGithubTokenRequired = errors.New("github token is required for release publishing")

type noopPublisher struct {
	owner string
	repo  string
}

// NewNoopPublisher returns a ReleasePublisher that fails every mutating call.
// It stands in when no token is configured so the bump pipeline still works
// up to the publish step.
func NewNoopPublisher(owner, repo string) ReleasePublisher {
	return &noopPublisher{owner: owner, repo: repo}
}

func (r *noopPublisher) PublishRelease(_ context.Context, tag, _ string) (*domain.Release, error) {
	return nil, fmt.Errorf("%w: unable to publish release %s for %s/%s",
		ErrGithubTokenRequired, tag, r.owner, r.repo)
}

func (r *noopPublisher) ReleaseExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}
