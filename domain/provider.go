package domain

import "context"

// Provider abstracts a Git hosting service (GitHub, GitLab, etc.).
// Each implementation handles authentication, repository discovery,
// branch lookups and pull request management for its platform.
type Provider interface {
	// Name returns the provider identifier (e.g. "github", "gitlab").
	Name() string

	// DiscoverRepositories lists all repositories in an organization or group.
	DiscoverRepositories(ctx context.Context, org string) ([]Repository, error)

	// BranchExists checks whether the named branch exists in the repository.
	BranchExists(ctx context.Context, repo Repository, branch string) (bool, error)

	// PullRequestExists checks if an open pull request already exists for the
	// given source branch.
	PullRequestExists(ctx context.Context, repo Repository, sourceBranch string) (bool, error)

	// CreatePullRequest creates a pull/merge request on the hosting service.
	CreatePullRequest(ctx context.Context, repo Repository, input PullRequestInput) (*PullRequest, error)

	// CloneURL returns an HTTPS clone URL for the repository, potentially
	// with embedded credentials for authenticated access.
	CloneURL(repo Repository) string
}
