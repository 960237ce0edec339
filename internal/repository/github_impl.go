package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v74/github"
	"github.com/relmint/relmint/internal/config"
	"github.com/relmint/relmint/internal/domain"
	"golang.org/x/oauth2"
)

// githubPublisher is the implementation of the ReleasePublisher interface.
type githubPublisher struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGithubPublisher creates a new ReleasePublisher with validation.
func NewGithubPublisher(token, owner, repo string) (ReleasePublisher, error) {
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return &githubPublisher{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// PublishRelease creates a hosted release for the tag with generated notes.
func (r *githubPublisher) PublishRelease(ctx context.Context, tag, title string) (*domain.Release, error) {
	release, resp, err := r.client.Repositories.CreateRelease(ctx, r.owner, r.repo, &github.RepositoryRelease{
		TagName:              github.Ptr(tag),
		Name:                 github.Ptr(title),
		GenerateReleaseNotes: github.Ptr(true),
	})
	if err != nil {
		return nil, r.classifyError(resp, tag, err)
	}
	version, err := domain.NewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tag %s: %w", tag, err)
	}
	return &domain.Release{
		Version: version,
		TagName: tag,
		Title:   title,
		ID:      release.GetID(),
	}, nil
}

// ReleaseExists reports whether a release already exists for the tag.
func (r *githubPublisher) ReleaseExists(ctx context.Context, tag string) (bool, error) {
	_, resp, err := r.client.Repositories.GetReleaseByTag(ctx, r.owner, r.repo, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("%w: failed to query release for tag %s: %v",
			domain.ErrRemoteUnavailable, tag, err)
	}
	return true, nil
}

// classifyError maps GitHub API failures onto the domain error taxonomy.
func (r *githubPublisher) classifyError(resp *github.Response, tag string, err error) error {
	if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
		return fmt.Errorf("%w: tag %s on %s/%s: %v",
			domain.ErrDuplicateRelease, tag, r.owner, r.repo, err)
	}
	return fmt.Errorf("%w: failed to create release for tag %s: %v",
		domain.ErrRemoteUnavailable, tag, err)
}
