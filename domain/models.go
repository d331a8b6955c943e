package domain

// Repository represents a Git repository on any hosting provider.
type Repository struct {
	ID            string
	Name          string
	Organization  string
	DefaultBranch string
	RemoteURL     string
	ProviderName  string
}

// FullName returns the "org/name" form used in logs and provider APIs.
func (r Repository) FullName() string {
	return r.Organization + "/" + r.Name
}

// PatchTarget is one (package name, target version) pair to attempt.
// Names shorter than two characters are rejected at load time to guard
// against over-broad matches in a flat text search.
type PatchTarget struct {
	Name          string
	TargetVersion string
}

// ManifestEntry is the located pin line for a package within a manifest.
// Operator is one of "==", "=" or "" (present but unpinned).
type ManifestEntry struct {
	Name           string
	Operator       string
	CurrentVersion string
	Line           int
}

// Strategy selects how a repository change is landed.
type Strategy string

const (
	// StrategyDirect pushes the commit straight to the working branch.
	StrategyDirect Strategy = "direct"
	// StrategyPropose lands the change via a feature branch and a pull request.
	StrategyPropose Strategy = "propose"
)

// Valid reports whether the strategy is one of the known values.
func (s Strategy) Valid() bool {
	return s == StrategyDirect || s == StrategyPropose
}

// PublishPlan is the per-repository landing decision, resolved once after
// branch discovery and immutable thereafter. FeatureBranch is only set under
// the propose strategy.
type PublishPlan struct {
	Strategy      Strategy
	WorkingBranch string
	FeatureBranch string
}

// PullRequestInput contains the data needed to create a pull request.
type PullRequestInput struct {
	SourceBranch string
	TargetBranch string
	Title        string
	Description  string
}

// PullRequest represents a pull/merge request returned by a provider.
type PullRequest struct {
	ID     int
	Title  string
	URL    string
	Status string
}
