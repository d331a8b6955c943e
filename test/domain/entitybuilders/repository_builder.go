//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/fleetpatch/domain"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// RepositoryBuilder helps create test repositories with a fluent interface.
type RepositoryBuilder struct {
	*testkit.BaseBuilder
	id            string
	name          string
	organization  string
	defaultBranch string
	remoteURL     string
	providerName  string
}

// NewRepositoryBuilder creates a new repository builder with sensible defaults.
func NewRepositoryBuilder() *RepositoryBuilder {
	return &RepositoryBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		id:            "1",
		name:          "test-repo",
		organization:  "test-org",
		defaultBranch: "main",
		remoteURL:     "https://example.com/test-org/test-repo.git",
		providerName:  "github",
	}
}

// WithID sets the repository identifier.
func (b *RepositoryBuilder) WithID(id string) *RepositoryBuilder {
	b.id = id
	return b
}

// WithName sets the repository name.
func (b *RepositoryBuilder) WithName(name string) *RepositoryBuilder {
	b.name = name
	return b
}

// WithOrganization sets the owning organization.
func (b *RepositoryBuilder) WithOrganization(org string) *RepositoryBuilder {
	b.organization = org
	return b
}

// WithDefaultBranch sets the default branch name.
func (b *RepositoryBuilder) WithDefaultBranch(branch string) *RepositoryBuilder {
	b.defaultBranch = branch
	return b
}

// WithRemoteURL sets the clone URL.
func (b *RepositoryBuilder) WithRemoteURL(url string) *RepositoryBuilder {
	b.remoteURL = url
	return b
}

// WithProviderName sets the hosting provider name.
func (b *RepositoryBuilder) WithProviderName(provider string) *RepositoryBuilder {
	b.providerName = provider
	return b
}

// Build creates the repository (satisfies testkit.Builder interface).
func (b *RepositoryBuilder) Build() interface{} {
	return b.BuildRepository()
}

// BuildRepository creates the repository with a concrete return type.
func (b *RepositoryBuilder) BuildRepository() domain.Repository {
	return domain.Repository{
		ID:            b.id,
		Name:          b.name,
		Organization:  b.organization,
		DefaultBranch: b.defaultBranch,
		RemoteURL:     b.remoteURL,
		ProviderName:  b.providerName,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepositoryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.id = "1"
	b.name = "test-repo"
	b.organization = "test-org"
	b.defaultBranch = "main"
	b.remoteURL = "https://example.com/test-org/test-repo.git"
	b.providerName = "github"
	return b
}

// Clone creates a deep copy of the RepositoryBuilder.
func (b *RepositoryBuilder) Clone() testkit.Builder {
	return &RepositoryBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		id:            b.id,
		name:          b.name,
		organization:  b.organization,
		defaultBranch: b.defaultBranch,
		remoteURL:     b.remoteURL,
		providerName:  b.providerName,
	}
}
